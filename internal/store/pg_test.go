package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbUser := os.Getenv("TEST_DB_USER")
	dbPassword := os.Getenv("TEST_DB_PASSWORD")
	dbName := os.Getenv("TEST_DB_NAME")

	var dsn string
	var err error

	if dbHost != "" {
		// Use external database
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
	} else {
		// Start a PostgreSQL container for testing
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Started PostgreSQL container\n")
	}

	// Connect to the database
	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Initialize the database schema
	if err := Migrate(testDB); err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	if pgContainer != nil {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	os.Exit(code)
}

var txHashSeq int

// uniqueTxHash returns a distinct 32-byte hash per call so tests sharing the
// database never trip each other's unique indexes
func uniqueTxHash() string {
	txHashSeq++
	return fmt.Sprintf("0x%064x", txHashSeq+0xf000)
}

func approvalRow(grantor, operator string, approved bool, ts time.Time) *schema.ApprovalRecord {
	return &schema.ApprovalRecord{
		GrantorAddress:  grantor,
		OperatorAddress: operator,
		IsApproved:      approved,
		TxHash:          uniqueTxHash(),
		BlockNumber:     100,
		EventTimestamp:  ts,
	}
}

func TestAppendApprovalRecord_Idempotent(t *testing.T) {
	st := NewPGStore(testDB)
	ctx := context.Background()

	rec := approvalRow("0xa100000000000000000000000000000000000001",
		"0xa100000000000000000000000000000000000002", true, time.Now().UTC())

	stored, already, err := st.AppendApprovalRecord(ctx, rec)
	require.NoError(t, err)
	assert.False(t, already)
	assert.NotZero(t, stored.ID)

	// Same tx hash again: the first row wins and comes back
	replay := *rec
	replay.ID = 0
	replay.IsApproved = false
	got, already, err := st.AppendApprovalRecord(ctx, &replay)
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, stored.ID, got.ID)
	assert.True(t, got.IsApproved)
}

func TestGetCurrentApproval_LatestByEventTimestamp(t *testing.T) {
	st := NewPGStore(testDB)
	ctx := context.Background()

	grantor := "0xa200000000000000000000000000000000000001"
	operator := "0xa200000000000000000000000000000000000002"
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Grant, revoke, re-grant; insertion order deliberately scrambled
	for _, rec := range []*schema.ApprovalRecord{
		approvalRow(grantor, operator, true, base.Add(2*time.Hour)),
		approvalRow(grantor, operator, true, base),
		approvalRow(grantor, operator, false, base.Add(time.Hour)),
	} {
		_, _, err := st.AppendApprovalRecord(ctx, rec)
		require.NoError(t, err)
	}

	current, err := st.GetCurrentApproval(ctx, grantor, operator)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.True(t, current.IsApproved)
	assert.Equal(t, base.Add(2*time.Hour), current.EventTimestamp.UTC())

	history, err := st.ListApprovalsByPair(ctx, grantor, operator)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestGetCurrentApproval_Empty(t *testing.T) {
	st := NewPGStore(testDB)

	current, err := st.GetCurrentApproval(context.Background(),
		"0xa300000000000000000000000000000000000001",
		"0xa300000000000000000000000000000000000002")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestAppendERC20ApprovalRecord_UniquePerContract(t *testing.T) {
	st := NewPGStore(testDB)
	ctx := context.Background()

	txHash := uniqueTxHash()
	blockNumber := uint64(200)
	rec := &schema.ERC20ApprovalRecord{
		GrantorAddress:       "0xa400000000000000000000000000000000000001",
		OperatorAddress:      "0xa400000000000000000000000000000000000002",
		TokenContractAddress: "0xa400000000000000000000000000000000000003",
		TokenSymbol:          "USDC",
		TxHash:               txHash,
		BlockNumber:          &blockNumber,
		IsApproved:           true,
		EventTimestamp:       time.Now().UTC(),
	}

	_, already, err := st.AppendERC20ApprovalRecord(ctx, rec)
	require.NoError(t, err)
	assert.False(t, already)

	// Same tx hash, same contract: duplicate
	dup := *rec
	dup.ID = 0
	_, already, err = st.AppendERC20ApprovalRecord(ctx, &dup)
	require.NoError(t, err)
	assert.True(t, already)

	// Same tx hash, different contract: a distinct row
	other := *rec
	other.ID = 0
	other.TokenContractAddress = "0xa400000000000000000000000000000000000004"
	_, already, err = st.AppendERC20ApprovalRecord(ctx, &other)
	require.NoError(t, err)
	assert.False(t, already)

	found, err := st.GetERC20ApprovalByTxHash(ctx, txHash, rec.TokenContractAddress)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "USDC", found.TokenSymbol)
}

func TestTransitionNFTStatus(t *testing.T) {
	st := NewPGStore(testDB)
	ctx := context.Background()

	rec := &schema.NFTRecord{
		TokenID:          "7001",
		RecipientAddress: "0xa500000000000000000000000000000000000001",
		InvestorAddress:  "0xa500000000000000000000000000000000000002",
		TokenURI:         "pending://7001",
		Status:           domain.NFTStatusUploaded,
	}
	require.NoError(t, st.CreateNFTRecord(ctx, rec))

	mintTx := uniqueTxHash()
	moved, err := st.TransitionNFTStatus(ctx, "7001",
		[]domain.NFTStatus{domain.NFTStatusUploaded}, domain.NFTStatusMinted, &mintTx)
	require.NoError(t, err)
	assert.True(t, moved)

	// Replaying the same transition is a no-op, not an error
	moved, err = st.TransitionNFTStatus(ctx, "7001",
		[]domain.NFTStatus{domain.NFTStatusUploaded}, domain.NFTStatusMinted, &mintTx)
	require.NoError(t, err)
	assert.False(t, moved)

	// Backward transitions never fire
	moved, err = st.TransitionNFTStatus(ctx, "7001",
		[]domain.NFTStatus{domain.NFTStatusRedeemed}, domain.NFTStatusUploaded, nil)
	require.NoError(t, err)
	assert.False(t, moved)

	got, err := st.GetNFTRecordByTokenID(ctx, "7001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.NFTStatusMinted, got.Status)
	require.NotNil(t, got.MintTxHash)
	assert.Equal(t, mintTx, *got.MintTxHash)

	// minted -> redeemed, then any -> pulled
	moved, err = st.TransitionNFTStatus(ctx, "7001",
		[]domain.NFTStatus{domain.NFTStatusMinted}, domain.NFTStatusRedeemed, nil)
	require.NoError(t, err)
	assert.True(t, moved)

	pullTx := uniqueTxHash()
	moved, err = st.TransitionNFTStatus(ctx, "7001",
		[]domain.NFTStatus{domain.NFTStatusUploaded, domain.NFTStatusMinted, domain.NFTStatusRedeemed},
		domain.NFTStatusPulled, &pullTx)
	require.NoError(t, err)
	assert.True(t, moved)

	got, err = st.GetNFTRecordByTokenID(ctx, "7001")
	require.NoError(t, err)
	assert.Equal(t, domain.NFTStatusPulled, got.Status)
	require.NotNil(t, got.PullTxHash)
	assert.Equal(t, pullTx, *got.PullTxHash)
}

func TestCreateNFTRecord_DuplicateTokenID(t *testing.T) {
	st := NewPGStore(testDB)
	ctx := context.Background()

	rec := &schema.NFTRecord{
		TokenID:          "7002",
		RecipientAddress: "0xa600000000000000000000000000000000000001",
		InvestorAddress:  "0xa600000000000000000000000000000000000002",
		TokenURI:         "pending://7002",
		Status:           domain.NFTStatusUploaded,
	}
	require.NoError(t, st.CreateNFTRecord(ctx, rec))

	dup := *rec
	dup.ID = 0
	assert.Error(t, st.CreateNFTRecord(ctx, &dup))
}

func TestListNFTRecordsByStatus_Paging(t *testing.T) {
	st := NewPGStore(testDB)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, st.CreateNFTRecord(ctx, &schema.NFTRecord{
			TokenID:          fmt.Sprintf("71%02d", i),
			RecipientAddress: "0xa700000000000000000000000000000000000001",
			InvestorAddress:  "0xa700000000000000000000000000000000000002",
			TokenURI:         "pending://x",
			Status:           domain.NFTStatusMinted,
		}))
	}

	var collected []*schema.NFTRecord
	for offset := 0; ; offset += 2 {
		page, err := st.ListNFTRecordsByStatus(ctx, []domain.NFTStatus{domain.NFTStatusMinted}, 2, offset)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		collected = append(collected, page...)
	}
	assert.GreaterOrEqual(t, len(collected), 5)
}

func TestPullbackHistory_SparseUniqueTxHash(t *testing.T) {
	st := NewPGStore(testDB)
	ctx := context.Background()

	errMsg := "nonce too low"
	failed := func() *schema.PullbackHistoryRecord {
		return &schema.PullbackHistoryRecord{
			TokenContractAddress: "0xa800000000000000000000000000000000000003",
			TokenSymbol:          "USDC",
			TokenName:            "USD Coin",
			TokenDecimals:        6,
			FromAddress:          "0xa800000000000000000000000000000000000001",
			OperatorAddress:      "0xa800000000000000000000000000000000000002",
			Amount:               "1000000",
			EventTimestamp:       time.Now().UTC(),
			Status:               schema.PullbackStatusFailed,
			ErrorMessage:         &errMsg,
		}
	}

	// Two pre-submission failures share a NULL tx hash without conflict
	require.NoError(t, st.CreatePullbackRecord(ctx, failed()))
	require.NoError(t, st.CreatePullbackRecord(ctx, failed()))

	txHash := uniqueTxHash()
	blockNumber := uint64(400)
	completed := failed()
	completed.TxHash = &txHash
	completed.BlockNumber = &blockNumber
	completed.Status = schema.PullbackStatusCompleted
	completed.ErrorMessage = nil
	require.NoError(t, st.CreatePullbackRecord(ctx, completed))

	// A confirmed hash, on the other hand, is unique
	dup := failed()
	dup.TxHash = &txHash
	assert.Error(t, st.CreatePullbackRecord(ctx, dup))

	recs, err := st.ListPullbacksByFrom(ctx, "0xa800000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestDocumentContentRef(t *testing.T) {
	st := NewPGStore(testDB)
	ctx := context.Background()

	doc := &schema.Document{
		TokenID:     "7200",
		FileName:    "statement.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	}
	require.NoError(t, st.CreateDocument(ctx, doc))

	got, err := st.GetDocumentByTokenID(ctx, "7200")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.ContentRef)

	require.NoError(t, st.SetDocumentContentRef(ctx, "7200", "bafy-pg-ref"))

	got, err = st.GetDocumentByTokenID(ctx, "7200")
	require.NoError(t, err)
	assert.Equal(t, "bafy-pg-ref", got.ContentRef)

	missing, err := st.GetDocumentByTokenID(ctx, "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttachTokenURI(t *testing.T) {
	st := NewPGStore(testDB)
	ctx := context.Background()

	require.NoError(t, st.CreateNFTRecord(ctx, &schema.NFTRecord{
		TokenID:          "7300",
		RecipientAddress: "0xa900000000000000000000000000000000000001",
		InvestorAddress:  "0xa900000000000000000000000000000000000002",
		TokenURI:         "pending://7300",
		Status:           domain.NFTStatusUploaded,
	}))

	require.NoError(t, st.AttachTokenURI(ctx, "7300", "https://gateway.example.com/bafy-7300"))

	got, err := st.GetNFTRecordByTokenID(ctx, "7300")
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example.com/bafy-7300", got.TokenURI)
}
