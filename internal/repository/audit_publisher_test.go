package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"PriceSigner/internal/domain/models"
	"PriceSigner/pkg/decimalfloat"
	pkgkafka "PriceSigner/pkg/kafka"

	"github.com/ethereum/go-ethereum/common"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaAuditPublisher(t *testing.T) {
	w := &recordingWriter{}
	pub := NewKafkaAuditPublisher(pkgkafka.NewProducerWithWriter(w, "none"), "signed-contexts")

	signer := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	att := &models.Attestation{
		SignedContext: models.SignedContext{
			Signer: signer,
			Context: []decimalfloat.Float{
				decimalfloat.FromPythPrice(310012345678, -8),
				decimalfloat.FromUint64(1700000005),
			},
			Signature: []byte{0xde, 0xad, 0xbe, 0xef},
		},
		Direction: models.AsIs,
		Sample: models.PriceSample{
			FeedID:      "ff61",
			Price:       310012345678,
			Expo:        -8,
			Conf:        42,
			PublishTime: time.Unix(1699999999, 0),
		},
		Expiry:   1700000005,
		SignedAt: time.Unix(1700000000, 0),
	}

	require.NoError(t, pub.Publish(context.Background(), att))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "signed-contexts", msg.Topic)
	assert.Equal(t, signer.Bytes(), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "signed_context", string(msg.Headers[0].Value))

	var ev map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, "signed_context", ev["type"])
	assert.Equal(t, signer.Hex(), ev["signer"])
	assert.Equal(t, "0xdeadbeef", ev["signature"])
	assert.Equal(t, "as_is", ev["direction"])
	assert.Equal(t, "3100.12345678", ev["price"])
	assert.Equal(t, float64(1700000005), ev["expiry"])
	assert.Equal(t, float64(1699999999), ev["publish_time"])
	assert.Equal(t, []interface{}{
		"0xfffffff80000000000000000000000000000000000000000000000482e2cfd4e",
		"0x000000000000000000000000000000000000000000000000000000006553f105",
	}, ev["context"])

	require.NoError(t, pub.Close())
}
