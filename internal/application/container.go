package application

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"GoldenGai-App/internal/config"
	"GoldenGai-App/internal/domain/event"
	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/handler"
	"GoldenGai-App/internal/infrastructure/database"
	"GoldenGai-App/internal/infrastructure/firestore"
	"GoldenGai-App/internal/infrastructure/metrics"
	"GoldenGai-App/internal/infrastructure/storage"
	repoimpl "GoldenGai-App/internal/repository"
	"GoldenGai-App/internal/usecase"
)

// Container 設定から組み立てたリポジトリ・ユースケース一式
type Container struct {
	Config   *config.Config
	Registry *prometheus.Registry
	Bus      *event.Bus

	Venues repository.VenuesRepository
	Images repository.ImageRepository

	Import  usecase.ImportUseCase
	Venue   usecase.VenueUseCase
	Photo   usecase.PhotoUseCase
	Updates usecase.RemoteUpdateUseCase

	closers []func() error
}

// NewContainer 設定されたドライバーでストアとキャッシュを開き、依存関係を組み立てる
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
		Bus:      event.NewBus(),
	}
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	venues, err := c.openVenueStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Venues = venues

	images, err := c.openImageCache(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Images = images

	translator, err := helper.NewNameTranslator()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("翻訳辞書の読み込みに失敗: %w", err)
	}

	m := metrics.New(c.Registry)
	c.Import = usecase.NewImportUseCase(c.Venues, c.Bus, m)
	c.Venue = usecase.NewVenueUseCase(c.Venues, c.Images, translator, c.Bus, m)
	c.Photo = usecase.NewPhotoUseCase(c.Venues, c.Images, c.Bus, m)
	c.Updates = usecase.NewRemoteUpdateUseCase(c.Venues, translator, c.Bus, m)

	log.Printf("✅ コンテナ初期化完了 (store=%s, images=%s)", cfg.StoreDriver, cfg.ImageDriver)
	return c, nil
}

// Router HTTPハンドラーを登録したginエンジンを返す
func (c *Container) Router() *gin.Engine {
	return handler.NewRouter(handler.Handlers{
		Venue:  handler.NewVenueHandler(c.Venue, c.Photo, c.Config.Settings()),
		Import: handler.NewImportHandler(c.Import, c.Updates, c.Venue),
		Photo:  handler.NewPhotoHandler(c.Photo),
	}, c.Registry)
}

// Close 開いた接続を逆順に閉じる
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Container) openVenueStore(ctx context.Context) (repository.VenuesRepository, error) {
	cfg := c.Config
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Println("⚠️ メモリストアを使用します（再起動でデータは失われます）")
		return repoimpl.NewMemoryVenuesRepository(), nil

	case config.StoreSQLite:
		client, err := database.NewSQLiteClient(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
		return repoimpl.NewSQLiteVenuesRepository(ctx, client)

	case config.StorePostgres:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			built, err := database.BuildSupabaseDSN(cfg.SupabaseURL, cfg.SupabaseDBPassword)
			if err != nil {
				return nil, err
			}
			dsn = built
		}
		client, err := database.NewPostgreSQLClientWithRetry(dsn, cfg.DatabaseConnectAttempts, cfg.DatabaseConnectRetryWait)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
		return repoimpl.NewPostgresVenuesRepository(ctx, client)

	case config.StoreFirestore:
		client, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
		return repoimpl.NewFirestoreVenuesRepository(client.GetClient()), nil

	case config.StoreSupabase:
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, err
		}
		if err := client.HealthCheck(); err != nil {
			return nil, err
		}
		return repoimpl.NewSupabaseVenuesRepository(client), nil
	}
	return nil, fmt.Errorf("不明なストアドライバー: %q", cfg.StoreDriver)
}

func (c *Container) openImageCache(ctx context.Context) (repository.ImageRepository, error) {
	cfg := c.Config
	switch cfg.ImageDriver {
	case config.ImageCacheFS:
		return repoimpl.NewFSImageRepository(cfg.ImageDir)

	case config.ImageCacheS3:
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return repoimpl.NewS3ImageRepository(client), nil
	}
	return nil, fmt.Errorf("不明な画像キャッシュドライバー: %q", cfg.ImageDriver)
}
