package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher 単一ファイルの変更を監視する
// エディタの置き換え保存に対応するため親ディレクトリを監視し、ファイル名で絞り込む
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context, path string)
}

// NewFileWatcher FileWatcherを作成
func NewFileWatcher(path string, debounce time.Duration, onChange func(ctx context.Context, path string)) *FileWatcher {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &FileWatcher{path: filepath.Clean(path), debounce: debounce, onChange: onChange}
}

// Run ctxがキャンセルされるまで監視を続ける
func (w *FileWatcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("ファイル監視の初期化に失敗: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("ディレクトリの監視登録に失敗 (%s): %w", dir, err)
	}
	log.Printf("👀 インポートファイルの監視を開始: %s", w.path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			log.Printf("🔄 インポートファイルの変更を検知: %s", w.path)
			if w.onChange != nil {
				w.onChange(ctx, w.path)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("⚠️ ファイル監視エラー: %v", err)
		}
	}
}
