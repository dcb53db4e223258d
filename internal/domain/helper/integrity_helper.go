package helper

import (
	"log"

	"github.com/google/uuid"

	"GoldenGai-App/internal/domain/model"
)

// RepairVenueIDs 重複・欠落しているIDを新しいUUIDで置き換え、修復したインデックスを返す
// 先に出現したレコードが元のIDを保持する
func RepairVenueIDs(venues []model.Venue) []int {
	seen := make(map[string]struct{}, len(venues))
	var repaired []int
	duplicateCount, missingCount := 0, 0

	for i := range venues {
		id := venues[i].ID
		switch {
		case id == "":
			missingCount++
			log.Printf("⚠️ IDが未設定のバーを検出: %s (%d, %d)", venues[i].Name, venues[i].Row, venues[i].Column)
		case hasKey(seen, id):
			duplicateCount++
			log.Printf("⚠️ 重複IDを検出: %s (%s)", id, venues[i].Name)
		default:
			seen[id] = struct{}{}
			continue
		}

		newID := uuid.New().String()
		for hasKey(seen, newID) {
			newID = uuid.New().String()
		}
		venues[i].ID = newID
		seen[newID] = struct{}{}
		repaired = append(repaired, i)
	}

	if len(repaired) > 0 {
		log.Printf("🔧 ID修復: 重複 %d件, 未設定 %d件", duplicateCount, missingCount)
	}
	return repaired
}

func hasKey(m map[string]struct{}, key string) bool {
	_, ok := m[key]
	return ok
}
