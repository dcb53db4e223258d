package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"GoldenGai-App/internal/domain/model"
)

// ストア・キャッシュのドライバー名
const (
	StoreMemory    = "memory"
	StoreSQLite    = "sqlite"
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
	StoreSupabase  = "supabase"

	ImageCacheFS = "fs"
	ImageCacheS3 = "s3"
)

// Config 環境変数から読み込むアプリケーション設定
type Config struct {
	Port string

	StoreDriver string
	SQLitePath  string

	DatabaseURL        string
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseDBPassword string

	FirestoreProjectID       string
	GoogleCredentialsFile    string
	DatabaseConnectAttempts  int
	DatabaseConnectRetryWait time.Duration

	ImageDriver string
	ImageDir    string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	ImportFile      string
	ImportOnStartup bool
	WatchImportFile bool

	DefaultLanguage model.Language
	Backgrounds     map[string]string
}

// Load .env（あれば）と環境変数から設定を読み込む
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ .env file not found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv 環境変数だけから設定を読み込む
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		StoreDriver:              strings.ToLower(getEnv("VENUE_STORE_DRIVER", StoreSQLite)),
		SQLitePath:               getEnv("SQLITE_PATH", "data/goldengai.db"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		SupabaseURL:              os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:          os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseDBPassword:       os.Getenv("SUPABASE_DB_PASSWORD"),
		FirestoreProjectID:       os.Getenv("FIRESTORE_PROJECT_ID"),
		GoogleCredentialsFile:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DatabaseConnectAttempts:  getEnvInt("DATABASE_CONNECT_ATTEMPTS", 3),
		DatabaseConnectRetryWait: getEnvDuration("DATABASE_CONNECT_RETRY_WAIT", 2*time.Second),
		ImageDriver:              strings.ToLower(getEnv("IMAGE_CACHE_DRIVER", ImageCacheFS)),
		ImageDir:                 getEnv("IMAGE_DIR", "data/photos"),
		S3Bucket:                 os.Getenv("S3_BUCKET"),
		S3Region:                 getEnv("S3_REGION", "ap-northeast-1"),
		S3Endpoint:               os.Getenv("S3_ENDPOINT"),
		S3PathStyle:              getEnvBool("S3_PATH_STYLE", false),
		ImportFile:               getEnv("IMPORT_FILE", "data/GoldenGaiData.json"),
		ImportOnStartup:          getEnvBool("IMPORT_ON_STARTUP", false),
		WatchImportFile:          getEnvBool("WATCH_IMPORT_FILE", false),
		DefaultLanguage:          model.ParseLanguage(getEnv("DEFAULT_LANGUAGE", "ja")),
		Backgrounds:              parseBackgrounds(os.Getenv("BACKGROUND_IMAGES")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ドライバーごとに必要な設定が揃っているか確認する
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" && (c.SupabaseURL == "" || c.SupabaseDBPassword == "") {
			return fmt.Errorf("postgresドライバーには DATABASE_URL または SUPABASE_URL + SUPABASE_DB_PASSWORD が必要です")
		}
	case StoreFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("firestoreドライバーには FIRESTORE_PROJECT_ID が必要です")
		}
	case StoreSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return fmt.Errorf("supabaseドライバーには SUPABASE_URL と SUPABASE_ANON_KEY が必要です")
		}
	default:
		return fmt.Errorf("不明な VENUE_STORE_DRIVER: %q", c.StoreDriver)
	}

	switch c.ImageDriver {
	case ImageCacheFS:
		if c.ImageDir == "" {
			return fmt.Errorf("fsドライバーには IMAGE_DIR が必要です")
		}
	case ImageCacheS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3ドライバーには S3_BUCKET が必要です")
		}
	default:
		return fmt.Errorf("不明な IMAGE_CACHE_DRIVER: %q", c.ImageDriver)
	}
	return nil
}

// Settings 表示設定の初期値
func (c *Config) Settings() model.Settings {
	return model.NewSettings(c.DefaultLanguage, c.Backgrounds)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("⚠️ %s の値 %q を真偽値として解釈できません。既定値 %v を使用します", key, v, fallback)
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Printf("⚠️ %s の値 %q が不正です。既定値 %d を使用します", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ %s の値 %q が不正です。既定値 %s を使用します", key, v, fallback)
		return fallback
	}
	return d
}

// parseBackgrounds "MapView=alley.jpg,BarListView=neon.jpg" 形式を解釈する
func parseBackgrounds(raw string) map[string]string {
	backgrounds := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		view, image, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || view == "" || image == "" {
			continue
		}
		backgrounds[strings.TrimSpace(view)] = strings.TrimSpace(image)
	}
	return backgrounds
}
