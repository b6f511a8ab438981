package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"booking-service/src/pkg/log"
)

type Producer interface {
	Publish(message *sarama.ProducerMessage) error
	Close() error
}

type KafkaConfig struct {
	Username      string
	Password      string
	Address       string
	SaslMechanism string
	AppName       string
	KafkaCaCert   string
}

type Cfg struct {
	KafkaUrl      string
	KafkaUsername string
	KafkaPassword string
	KafkaCaCert   string
	AppName       string
}

var kafkaConfig KafkaConfig

func InitKafkaConfig(cfg Cfg) KafkaConfig {
	kafkaConfig = KafkaConfig{
		Address:       cfg.KafkaUrl,
		Username:      cfg.KafkaUsername,
		Password:      cfg.KafkaPassword,
		AppName:       cfg.AppName,
		KafkaCaCert:   cfg.KafkaCaCert,
		SaslMechanism: "PLAIN",
	}
	return kafkaConfig
}

func GetConfig() KafkaConfig {
	return kafkaConfig
}

func decodeKey(secret string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// GetSaramaConfig builds the client config; SASL/TLS kicks in only when a
// username is configured, mirroring local vs managed clusters.
func (kc KafkaConfig) GetSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = kc.AppName
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 500 * time.Millisecond

	if kc.Username != "" {
		cfg.Net.SASL.Enable = true
		cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		cfg.Net.SASL.User = kc.Username
		cfg.Net.SASL.Password = kc.Password

		tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
		if ca, err := decodeKey(kc.KafkaCaCert); err == nil && ca != "" {
			pool := x509.NewCertPool()
			pool.AppendCertsFromPEM([]byte(ca))
			tlsCfg.RootCAs = pool
		}
		cfg.Net.TLS.Enable = true
		cfg.Net.TLS.Config = tlsCfg
	}

	return cfg
}

type saramaProducer struct {
	producer sarama.SyncProducer
	log      log.Log
}

func NewProducer(kc KafkaConfig, logger log.Log) (Producer, error) {
	brokers := strings.Split(kc.Address, ",")
	p, err := sarama.NewSyncProducer(brokers, kc.GetSaramaConfig())
	if err != nil {
		return nil, err
	}
	return &saramaProducer{producer: p, log: logger}, nil
}

func (p *saramaProducer) Publish(message *sarama.ProducerMessage) error {
	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return err
	}
	p.log.Info("kafka", "message published", message.Topic,
		fmt.Sprintf("partition=%d offset=%d", partition, offset))
	return nil
}

func (p *saramaProducer) Close() error {
	return p.producer.Close()
}
