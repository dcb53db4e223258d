package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config S3互換ストレージ（AWS S3 / MinIO）の接続設定
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string // MinIO等のカスタムエンドポイント（任意）
	PathStyle bool
}

// S3Client 単一バケットを扱うS3クライアント
type S3Client struct {
	Client *s3.Client
	Bucket string
}

// NewS3Client デフォルトの認証チェーンでS3クライアントを作成
func NewS3Client(ctx context.Context, cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET環境変数が設定されていません")
	}
	region := cfg.Region
	if region == "" {
		region = "ap-northeast-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Client{Client: client, Bucket: cfg.Bucket}, nil
}
