package converter

import (
	"booking-service/src/internal/entity"
	"booking-service/src/internal/model"
)

func WalletToResponse(wallet *entity.Wallet) *model.WalletResponse {
	return &model.WalletResponse{
		ID:               wallet.ID,
		OwnerID:          wallet.OwnerID,
		OwnerKind:        wallet.OwnerKind,
		Balance:          wallet.Balance,
		LifetimeRecharge: wallet.LifetimeRecharge,
		LifetimeDeposit:  wallet.LifetimeDeposit,
		Status:           wallet.Status,
		UpdatedAt:        wallet.UpdatedAt,
	}
}

func TransactionToResponse(txn *entity.WalletTransaction) *model.TransactionResponse {
	resp := &model.TransactionResponse{
		ID:         txn.ID,
		Kind:       txn.Kind,
		Amount:     txn.Amount,
		Status:     txn.Status,
		Commission: txn.Commission,
		Reason:     txn.Reason,
		CreatedAt:  txn.CreatedAt,
	}
	if txn.BookingID != nil {
		resp.BookingID = *txn.BookingID
	}
	return resp
}

func TransactionsToResponse(txns []entity.WalletTransaction) []model.TransactionResponse {
	responses := make([]model.TransactionResponse, 0, len(txns))
	for i := range txns {
		responses = append(responses, *TransactionToResponse(&txns[i]))
	}
	return responses
}
