package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"GoldenGai-App/internal/application"
	"GoldenGai-App/internal/config"
	"GoldenGai-App/internal/infrastructure/watcher"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 設定の読み込みに失敗: %v", err)
	}

	container, err := application.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ 初期化に失敗: %v", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Printf("⚠️ 接続のクローズに失敗: %v", err)
		}
	}()

	if cfg.ImportOnStartup {
		if result, err := container.Import.ImportFile(ctx, cfg.ImportFile); err != nil {
			log.Printf("⚠️ 起動時インポートに失敗: %v", err)
		} else {
			log.Printf("✅ 起動時インポート完了: %d venues", result.VenueCount)
		}
	}

	if cfg.WatchImportFile {
		fw := watcher.NewFileWatcher(cfg.ImportFile, 500*time.Millisecond, func(ctx context.Context, path string) {
			if _, err := container.Import.ImportFile(ctx, path); err != nil {
				log.Printf("❌ 再インポートに失敗: %v", err)
			}
		})
		go func() {
			if err := fw.Run(ctx); err != nil {
				log.Printf("⚠️ ファイル監視を停止: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           container.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 GoldenGai-App server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ サーバー起動失敗: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🔄 シャットダウン中...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ シャットダウンに失敗: %v", err)
	}
}
