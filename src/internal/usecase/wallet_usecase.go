package usecase

import (
	"context"
	"fmt"

	"booking-service/src/internal/model"
	"booking-service/src/internal/model/converter"
	"booking-service/src/internal/repository"
	httpError "booking-service/src/pkg/http-error"
	"booking-service/src/pkg/log"
	"booking-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
)

type WalletUseCase struct {
	Log              log.Log
	Validate         *validator.Validate
	WalletRepository repository.WalletStore
}

func NewWalletUseCase(
	logger log.Log,
	validate *validator.Validate,
	walletRepository repository.WalletStore,
) *WalletUseCase {
	return &WalletUseCase{
		Log:              logger,
		Validate:         validate,
		WalletRepository: walletRepository,
	}
}

func (c *WalletUseCase) Balance(ctx context.Context, request *model.WalletBalanceRequest) (*model.WalletResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("wallet-usecase", errObj.Message, "Balance", utils.ConvertString(err))
		return nil, errObj
	}

	wallet, err := c.WalletRepository.FindByOwner(ctx, request.UserID)
	if err != nil {
		if err == repository.ErrWalletNotFound {
			errObj := httpError.NewNotFound()
			errObj.Message = fmt.Sprintf("wallet for user %s not found", request.UserID)
			c.Log.Error("wallet-usecase", errObj.Message, "Balance", request.UserID)
			return nil, errObj
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load wallet"
		c.Log.Error("wallet-usecase", fmt.Sprintf("Error load wallet: %v", err), "Balance", utils.ConvertString(err))
		return nil, errObj
	}

	return converter.WalletToResponse(wallet), nil
}

func (c *WalletUseCase) Recharge(ctx context.Context, request *model.RechargeRequest) (*model.WalletResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("wallet-usecase", errObj.Message, "Recharge", utils.ConvertString(err))
		return nil, errObj
	}

	if _, err := c.WalletRepository.Recharge(ctx, request.UserID, request.Amount); err != nil {
		if err == repository.ErrWalletNotFound {
			errObj := httpError.NewUnprocessableEntity()
			errObj.Message = "wallet is missing or frozen"
			c.Log.Error("wallet-usecase", errObj.Message, "Recharge", request.UserID)
			return nil, errObj
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to recharge wallet"
		c.Log.Error("wallet-usecase", fmt.Sprintf("Error recharge wallet: %v", err), "Recharge", utils.ConvertString(err))
		return nil, errObj
	}

	wallet, err := c.WalletRepository.FindByOwner(ctx, request.UserID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load wallet after recharge"
		c.Log.Error("wallet-usecase", fmt.Sprintf("Error load wallet: %v", err), "Recharge", utils.ConvertString(err))
		return nil, errObj
	}

	return converter.WalletToResponse(wallet), nil
}

func (c *WalletUseCase) History(ctx context.Context, request *model.WalletHistoryRequest) ([]model.TransactionResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("wallet-usecase", errObj.Message, "History", utils.ConvertString(err))
		return nil, errObj
	}

	limit := request.Limit
	if limit == 0 {
		limit = 20
	}

	txns, err := c.WalletRepository.History(ctx, request.UserID, limit, request.Offset)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load wallet history"
		c.Log.Error("wallet-usecase", fmt.Sprintf("Error load history: %v", err), "History", utils.ConvertString(err))
		return nil, errObj
	}

	return converter.TransactionsToResponse(txns), nil
}
