package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/infrastructure/storage"
)

const s3PhotoPrefix = "photos/"

// S3ImageRepository S3互換ストレージに photos/<id>.jpg として写真を保存するリポジトリ
type S3ImageRepository struct {
	client *s3.Client
	bucket string
}

func NewS3ImageRepository(client *storage.S3Client) repository.ImageRepository {
	return &S3ImageRepository{
		client: client.Client,
		bucket: client.Bucket,
	}
}

func (r *S3ImageRepository) objectKey(id string) (string, error) {
	key, err := imageKey(id)
	if err != nil {
		return "", err
	}
	return s3PhotoPrefix + key, nil
}

// isS3NotFound オブジェクトが存在しないことを示すエラーか判定
func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}

func (r *S3ImageRepository) Save(ctx context.Context, id string, data []byte) error {
	key, err := r.objectKey(id)
	if err != nil {
		return err
	}
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("写真のアップロードに失敗: %w", err)
	}
	return nil
}

func (r *S3ImageRepository) Load(ctx context.Context, id string) ([]byte, error) {
	key, err := r.objectKey(id)
	if err != nil {
		return nil, err
	}
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(r.bucket), Key: aws.String(key)})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("写真 %s: %w", id, model.ErrImageNotFound)
		}
		return nil, fmt.Errorf("写真のダウンロードに失敗: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("写真の読み込みに失敗: %w", err)
	}
	return data, nil
}

func (r *S3ImageRepository) Delete(ctx context.Context, id string) error {
	// DeleteObjectは存在しないキーでも成功するため、先にHeadで確認する
	exists, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("写真 %s: %w", id, model.ErrImageNotFound)
	}

	key, _ := r.objectKey(id)
	if _, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(r.bucket), Key: aws.String(key)}); err != nil {
		return fmt.Errorf("写真の削除に失敗: %w", err)
	}
	return nil
}

func (r *S3ImageRepository) Exists(ctx context.Context, id string) (bool, error) {
	key, err := r.objectKey(id)
	if err != nil {
		return false, err
	}
	_, err = r.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(r.bucket), Key: aws.String(key)})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("写真の確認に失敗: %w", err)
	}
	return true, nil
}

// listPhotos photos/ 配下の写真オブジェクトをページングしながら列挙する
func (r *S3ImageRepository) listPhotos(ctx context.Context, visit func(id string, size int64)) error {
	var token *string
	for {
		out, err := r.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(r.bucket),
			Prefix:            aws.String(s3PhotoPrefix),
			ContinuationToken: token,
		})
		if err != nil {
			return fmt.Errorf("写真一覧の取得に失敗: %w", err)
		}
		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s3PhotoPrefix)
			if strings.Contains(name, "/") {
				continue
			}
			if id, ok := imageIDFromKey(name); ok {
				visit(id, aws.ToInt64(obj.Size))
			}
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		return nil
	}
}

func (r *S3ImageRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.listPhotos(ctx, func(id string, _ int64) { ids = append(ids, id) }); err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *S3ImageRepository) Size(ctx context.Context) (int64, error) {
	var total int64
	if err := r.listPhotos(ctx, func(_ string, size int64) { total += size }); err != nil {
		return 0, err
	}
	return total, nil
}
