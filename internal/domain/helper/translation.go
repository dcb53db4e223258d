package helper

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"GoldenGai-App/internal/domain/model"
)

//go:embed translations.yaml
var embeddedTranslations []byte

// translationFile translations.yaml の構造
type translationFile struct {
	Names map[string]string `yaml:"names"`
}

// NameTranslator バー名の日本語→英語対応表
type NameTranslator struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewNameTranslator 埋め込みの対応表から作成する
func NewNameTranslator() (*NameTranslator, error) {
	return LoadNameTranslator(strings.NewReader(string(embeddedTranslations)))
}

// LoadNameTranslator YAMLの対応表を読み込む
func LoadNameTranslator(r io.Reader) (*NameTranslator, error) {
	var file translationFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("翻訳データのYAMLデコード失敗: %w", err)
	}
	names := make(map[string]string, len(file.Names))
	for ja, en := range file.Names {
		names[ja] = en
	}
	return &NameTranslator{names: names}, nil
}

// Translate 表示言語に合わせた店名を返す（対応がなければ元の店名）
// 閉店プレフィックスは維持する
func (t *NameTranslator) Translate(name string, lang model.Language) string {
	if lang != model.LanguageEnglish {
		return name
	}

	base := strings.TrimPrefix(name, model.ClosedPrefix)
	t.mu.RLock()
	en, ok := t.names[base]
	t.mu.RUnlock()
	if !ok || en == "" {
		return name
	}
	if base != name {
		return model.ClosedPrefix + en
	}
	return en
}

// Merge リモートから配信された対応表で追加・上書きし、反映件数を返す
func (t *NameTranslator) Merge(overrides map[string]string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for ja, en := range overrides {
		if ja == "" || en == "" {
			continue
		}
		t.names[ja] = en
		count++
	}
	return count
}

// Len 登録されている店名の件数
func (t *NameTranslator) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names)
}
