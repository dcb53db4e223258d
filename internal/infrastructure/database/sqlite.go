package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteClient 端末ローカルのSQLiteクライアント
type SQLiteClient struct {
	DB   *sql.DB
	Path string
}

// NewSQLiteClient SQLiteファイルを開く（ディレクトリがなければ作成）
func NewSQLiteClient(path string) (*SQLiteClient, error) {
	if path == "" {
		path = "goldengai.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("SQLiteディレクトリの作成に失敗: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("SQLiteのオープンに失敗: %w", err)
	}
	// 書き込みトランザクションと読み込みを直列化する
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("SQLiteへの接続に失敗: %w", err)
	}

	return &SQLiteClient{DB: db, Path: path}, nil
}

// Close データベース接続を閉じる
func (sc *SQLiteClient) Close() error {
	if sc.DB != nil {
		return sc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (sc *SQLiteClient) HealthCheck(ctx context.Context) error {
	if sc.DB == nil {
		return fmt.Errorf("SQLiteクライアントが初期化されていません")
	}
	return sc.DB.PingContext(ctx)
}
