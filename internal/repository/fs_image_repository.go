package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
)

// FSImageRepository ローカルディレクトリに <id>.jpg として写真を保存するリポジトリ
type FSImageRepository struct {
	root string
}

// NewFSImageRepository 保存先ディレクトリを作成してリポジトリを返す
func NewFSImageRepository(root string) (repository.ImageRepository, error) {
	if root == "" {
		return nil, fmt.Errorf("写真の保存先ディレクトリが指定されていません")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("写真ディレクトリの作成に失敗: %w", err)
	}
	return &FSImageRepository{root: root}, nil
}

func (r *FSImageRepository) pathFor(id string) (string, error) {
	key, err := imageKey(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(r.root, key), nil
}

func (r *FSImageRepository) Save(ctx context.Context, id string, data []byte) error {
	path, err := r.pathFor(id)
	if err != nil {
		return err
	}

	// 一時ファイルに書き込んでからリネームし、読み手に書きかけのファイルを見せない
	tmp, err := os.CreateTemp(r.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("写真の書き込みに失敗: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("写真の書き込みに失敗: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写真の書き込みに失敗: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("写真の保存に失敗: %w", err)
	}
	return nil
}

func (r *FSImageRepository) Load(ctx context.Context, id string) ([]byte, error) {
	path, err := r.pathFor(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("写真 %s: %w", id, model.ErrImageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("写真の読み込みに失敗: %w", err)
	}
	return data, nil
}

func (r *FSImageRepository) Delete(ctx context.Context, id string) error {
	path, err := r.pathFor(id)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("写真 %s: %w", id, model.ErrImageNotFound)
	}
	if err != nil {
		return fmt.Errorf("写真の削除に失敗: %w", err)
	}
	return nil
}

func (r *FSImageRepository) Exists(ctx context.Context, id string) (bool, error) {
	path, err := r.pathFor(id)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("写真の確認に失敗: %w", err)
	}
	return true, nil
}

func (r *FSImageRepository) ListIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("写真ディレクトリの読み込みに失敗: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := imageIDFromKey(entry.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *FSImageRepository) Size(ctx context.Context) (int64, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return 0, fmt.Errorf("写真ディレクトリの読み込みに失敗: %w", err)
	}

	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := imageIDFromKey(entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return 0, fmt.Errorf("写真ファイル情報の取得に失敗: %w", err)
		}
		total += info.Size()
	}
	return total, nil
}
