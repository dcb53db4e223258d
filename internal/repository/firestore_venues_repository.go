package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/model"
	"GoldenGai-App/internal/domain/repository"
)

const venuesCollection = "venues"

// firestoreVenue Firestoreに保存するバーのドキュメント（ドキュメントIDは起点セル）
type firestoreVenue struct {
	ID          string    `firestore:"id"`
	Name        string    `firestore:"name"`
	Row         int       `firestore:"row"`
	Column      int       `firestore:"column"`
	SpanRows    int       `firestore:"span_rows"`
	SpanColumns int       `firestore:"span_columns"`
	Visited     bool      `firestore:"visited"`
	Notes       *string   `firestore:"notes"`
	Footprint   string    `firestore:"footprint"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func toFirestoreVenue(v *model.Venue, now time.Time) *firestoreVenue {
	return &firestoreVenue{
		ID:          v.ID,
		Name:        v.Name,
		Row:         v.Row,
		Column:      v.Column,
		SpanRows:    v.SpanRows,
		SpanColumns: v.SpanColumns,
		Visited:     v.Visited,
		Notes:       v.Notes,
		Footprint:   helper.FootprintWKT(v),
		UpdatedAt:   now,
	}
}

func (fv *firestoreVenue) toVenue() model.Venue {
	return model.Venue{
		ID:          fv.ID,
		Name:        fv.Name,
		Row:         fv.Row,
		Column:      fv.Column,
		SpanRows:    fv.SpanRows,
		SpanColumns: fv.SpanColumns,
		Visited:     fv.Visited,
		Notes:       fv.Notes,
	}
}

// FirestoreVenuesRepository Firestoreを使用したバーリポジトリ
type FirestoreVenuesRepository struct {
	client *firestore.Client
}

// NewFirestoreVenuesRepository 新しいFirestoreVenuesRepositoryインスタンスを作成
func NewFirestoreVenuesRepository(client *firestore.Client) repository.VenuesRepository {
	return &FirestoreVenuesRepository{
		client: client,
	}
}

func (r *FirestoreVenuesRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(venuesCollection)
}

func decodeVenueDocs(docs []*firestore.DocumentSnapshot) ([]model.Venue, error) {
	venues := make([]model.Venue, 0, len(docs))
	for _, doc := range docs {
		var fv firestoreVenue
		if err := doc.DataTo(&fv); err != nil {
			return nil, fmt.Errorf("データの変換に失敗しました (%s): %w", doc.Ref.ID, err)
		}
		venues = append(venues, fv.toVenue())
	}
	helper.SortByOrigin(venues)
	return venues, nil
}

func (r *FirestoreVenuesRepository) ReplaceAll(ctx context.Context, venues []model.Venue) error {
	prepared, err := prepareVenues(venues)
	if err != nil {
		return fmt.Errorf("バーデータの置き換えに失敗: %w", err)
	}

	now := time.Now()
	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// トランザクション内では読み込みを書き込みより先に行う
		existing, err := tx.Documents(r.collection()).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range existing {
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}
		for i := range prepared {
			v := &prepared[i]
			ref := r.collection().Doc(venueDocumentID(v.Row, v.Column))
			if err := tx.Set(ref, toFirestoreVenue(v, now)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Failed to replace venues: %v", err)
		return fmt.Errorf("バーデータの置き換えに失敗しました: %w", err)
	}

	log.Printf("✅ Venues replaced in Firestore: %d", len(prepared))
	return nil
}

func (r *FirestoreVenuesRepository) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	docs, err := r.collection().Where("id", "==", id).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得に失敗しました: %w", err)
	}
	venues, err := decodeVenueDocs(docs)
	if err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return nil, fmt.Errorf("バーID %s: %w", id, model.ErrVenueNotFound)
	}
	return &venues[0], nil
}

func (r *FirestoreVenuesRepository) FindByOrigin(ctx context.Context, row, column int) (*model.Venue, error) {
	doc, err := r.collection().Doc(venueDocumentID(row, column)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("起点セル (%d, %d): %w", row, column, model.ErrVenueNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得に失敗しました: %w", err)
	}

	var fv firestoreVenue
	if err := doc.DataTo(&fv); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	v := fv.toVenue()
	return &v, nil
}

func (r *FirestoreVenuesRepository) FindCovering(ctx context.Context, row, column int) (*model.Venue, error) {
	// 起点セルは指定セル以上の行にはないため、行で絞り込んでから範囲判定する
	docs, err := r.collection().Where("row", "<=", row).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得に失敗しました: %w", err)
	}
	venues, err := decodeVenueDocs(docs)
	if err != nil {
		return nil, err
	}
	if v := helper.FindCoveringVenue(venues, row, column); v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("セル (%d, %d): %w", row, column, model.ErrVenueNotFound)
}

func (r *FirestoreVenuesRepository) Update(ctx context.Context, id string, mutate model.VenueMutator) (*model.Venue, error) {
	var updated *model.Venue
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(r.collection().Where("id", "==", id)).GetAll()
		if err != nil {
			return err
		}
		venues, err := decodeVenueDocs(docs)
		if err != nil {
			return err
		}
		if len(venues) == 0 {
			return fmt.Errorf("バーID %s: %w", id, model.ErrVenueNotFound)
		}

		updated, err = applyMutation(venues[0], mutate)
		if err != nil {
			return err
		}

		ref := r.collection().Doc(venueDocumentID(updated.Row, updated.Column))
		return tx.Update(ref, []firestore.Update{
			{Path: "name", Value: updated.Name},
			{Path: "visited", Value: updated.Visited},
			{Path: "notes", Value: updated.Notes},
			{Path: "updated_at", Value: firestore.ServerTimestamp},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("バーデータの更新に失敗しました: %w", err)
	}
	return updated, nil
}

func (r *FirestoreVenuesRepository) ValidateIntegrity(ctx context.Context) (int, error) {
	repairedCount := 0
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(r.collection()).GetAll()
		if err != nil {
			return err
		}
		venues, err := decodeVenueDocs(docs)
		if err != nil {
			return err
		}

		repaired := helper.RepairVenueIDs(venues)
		for _, i := range repaired {
			v := &venues[i]
			ref := r.collection().Doc(venueDocumentID(v.Row, v.Column))
			if err := tx.Update(ref, []firestore.Update{
				{Path: "id", Value: v.ID},
				{Path: "updated_at", Value: firestore.ServerTimestamp},
			}); err != nil {
				return err
			}
		}
		repairedCount = len(repaired)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("整合性チェックに失敗しました: %w", err)
	}
	return repairedCount, nil
}

func (r *FirestoreVenuesRepository) GetAll(ctx context.Context) ([]model.Venue, error) {
	docs, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("バーデータの取得に失敗しました: %w", err)
	}
	return decodeVenueDocs(docs)
}

func (r *FirestoreVenuesRepository) Count(ctx context.Context) (*model.VenueStats, error) {
	venues, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return helper.CountStats(venues), nil
}
