package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/infrastructure/database"
)

// TEST_DATABASE_URL が設定されている場合のみ実行する（テーブルを作り直すため本番DBは指定しないこと）
func TestPostgresVenuesRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL が設定されていないためスキップ")
	}

	client, err := database.NewPostgreSQLClient(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	runVenuesRepositoryContract(t, func(t *testing.T) repository.VenuesRepository {
		repo, err := NewPostgresVenuesRepository(context.Background(), client)
		require.NoError(t, err)
		return repo
	})

	t.Run("並行読み込みでも中途半端な状態が見えない", func(t *testing.T) {
		repo, err := NewPostgresVenuesRepository(context.Background(), client)
		require.NoError(t, err)
		runReplaceAllAtomicity(t, repo)
	})
}
