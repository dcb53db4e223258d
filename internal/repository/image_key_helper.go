package repository

import (
	"fmt"
	"strings"

	"GoldenGai-App/internal/domain/model"
)

const imageExtension = ".jpg"

// imageKey バーIDから写真ファイル名 <id>.jpg を作る
func imageKey(id string) (string, error) {
	switch {
	case strings.TrimSpace(id) == "":
		return "", fmt.Errorf("空のID: %w", model.ErrInvalidImageID)
	case strings.Contains(id, ".."):
		return "", fmt.Errorf("'..' を含むID %q: %w", id, model.ErrInvalidImageID)
	case strings.ContainsAny(id, `/\`):
		return "", fmt.Errorf("パス区切りを含むID %q: %w", id, model.ErrInvalidImageID)
	}
	return id + imageExtension, nil
}

// imageIDFromKey ファイル名からバーIDを取り出す（写真ファイルでなければfalse）
func imageIDFromKey(name string) (string, bool) {
	if !strings.HasSuffix(name, imageExtension) || strings.HasPrefix(name, ".") {
		return "", false
	}
	id := strings.TrimSuffix(name, imageExtension)
	return id, id != ""
}
