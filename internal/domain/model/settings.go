package model

// Language 表示言語
type Language string

const (
	LanguageJapanese Language = "ja"
	LanguageEnglish  Language = "en"
)

// ParseLanguage 文字列から表示言語を判定する（不明な値は日本語）
func ParseLanguage(s string) Language {
	switch s {
	case "en", "EN", "english", "English":
		return LanguageEnglish
	default:
		return LanguageJapanese
	}
}

// Settings 画面構築に渡す不変の表示設定
type Settings struct {
	Language    Language
	backgrounds map[string]string
}

// NewSettings 表示設定を作成する
func NewSettings(lang Language, backgrounds map[string]string) Settings {
	copied := make(map[string]string, len(backgrounds))
	for k, v := range backgrounds {
		copied[k] = v
	}
	return Settings{Language: lang, backgrounds: copied}
}

// WithLanguage 言語だけを変更したコピーを返す
func (s Settings) WithLanguage(lang Language) Settings {
	return NewSettings(lang, s.backgrounds)
}

// Background 指定ビューの背景画像名を返す
func (s Settings) Background(view, fallback string) string {
	if name, ok := s.backgrounds[view]; ok && name != "" {
		return name
	}
	return fallback
}

// defaultBackgrounds 背景画像を変更できるビューと既定の画像名
var defaultBackgrounds = map[string]string{
	"ContentView": "ContentBackground",
	"BarListView": "BarListBackground",
	"MapView":     "BarMapBackground",
}

// Backgrounds 全ビューの背景画像名（未設定のビューは既定の画像）
func (s Settings) Backgrounds() map[string]string {
	resolved := make(map[string]string, len(defaultBackgrounds))
	for view, fallback := range defaultBackgrounds {
		resolved[view] = s.Background(view, fallback)
	}
	return resolved
}

// ShowEnglish 英語表示かどうか
func (s Settings) ShowEnglish() bool {
	return s.Language == LanguageEnglish
}

// VenueView 表示言語に合わせた一覧・詳細用のバー情報
type VenueView struct {
	Venue
	DisplayName string `json:"display_name"`
	HasPhoto    bool   `json:"has_photo"`
}
