package audit_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/gowebpki/jcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc/doc-custody/internal/audit"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/mocks"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

func TestRecord(t *testing.T) {
	require.NoError(t, logger.Initialize(logger.Config{Debug: true}))
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	auditLogger := audit.NewLogger(st)
	ctx := context.Background()

	st.EXPECT().CreateAuditLog(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, row *schema.AuditLog) error {
			assert.Equal(t, audit.ActionTokenPulled, row.Action)
			assert.Equal(t, "0x2222222222222222222222222222222222222222", row.ActorAddress)
			require.NotNil(t, row.TokenID)
			assert.Equal(t, "42", *row.TokenID)
			require.NotNil(t, row.TxHash)
			assert.NotEmpty(t, row.ID)

			// The digest is the SHA-256 of the canonical metadata form
			canonical, err := jcs.Transform(row.Metadata)
			require.NoError(t, err)
			sum := sha256.Sum256(canonical)
			assert.Equal(t, hex.EncodeToString(sum[:]), row.MetadataDigest)
			return nil
		})

	auditLogger.Record(ctx, audit.Entry{
		Action:       audit.ActionTokenPulled,
		ActorAddress: "0x2222222222222222222222222222222222222222",
		TokenID:      "42",
		TxHash:       "0xabc",
		Metadata: map[string]interface{}{
			"from":   "0x4444444444444444444444444444444444444444",
			"source": "operator_request",
		},
	})
}

func TestRecord_StableDigestAcrossKeyOrder(t *testing.T) {
	require.NoError(t, logger.Initialize(logger.Config{Debug: true}))
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	auditLogger := audit.NewLogger(st)
	ctx := context.Background()

	var digests []string
	st.EXPECT().CreateAuditLog(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, row *schema.AuditLog) error {
			digests = append(digests, row.MetadataDigest)
			return nil
		}).Times(2)

	// Same metadata twice; the canonical digest must not depend on map
	// iteration order
	meta := map[string]interface{}{"b": "2", "a": "1", "c": float64(3)}
	auditLogger.Record(ctx, audit.Entry{Action: audit.ActionDocumentCreated, Metadata: meta})
	auditLogger.Record(ctx, audit.Entry{Action: audit.ActionDocumentCreated, Metadata: meta})

	require.Len(t, digests, 2)
	assert.Equal(t, digests[0], digests[1])
}

func TestRecord_SwallowsStoreFailure(t *testing.T) {
	require.NoError(t, logger.Initialize(logger.Config{Debug: true}))
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	auditLogger := audit.NewLogger(st)

	st.EXPECT().CreateAuditLog(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	// Must not panic or surface the error
	auditLogger.Record(context.Background(), audit.Entry{Action: audit.ActionTokenMinted})
}

func TestRecord_OmitsEmptyOptionalFields(t *testing.T) {
	require.NoError(t, logger.Initialize(logger.Config{Debug: true}))
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	auditLogger := audit.NewLogger(st)
	ctx := context.Background()

	st.EXPECT().CreateAuditLog(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, row *schema.AuditLog) error {
			assert.Nil(t, row.TokenID)
			assert.Nil(t, row.TxHash)
			return nil
		})

	auditLogger.Record(ctx, audit.Entry{
		Action:       audit.ActionApprovalRecorded,
		ActorAddress: "0x1111111111111111111111111111111111111111",
	})
}
