package helper

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"GoldenGai-App/internal/domain/model"
)

// CellCenter グリッドセルの中心点（X=列, Y=行）
func CellCenter(row, column int) orb.Point {
	return orb.Point{float64(column) + 0.5, float64(row) + 0.5}
}

// VenueBound バーの占有範囲を orb.Bound に変換する
func VenueBound(v *model.Venue) orb.Bound {
	spanRows, spanColumns := v.SpanRows, v.SpanColumns
	if spanRows < 1 {
		spanRows = 1
	}
	if spanColumns < 1 {
		spanColumns = 1
	}
	return orb.Bound{
		Min: orb.Point{float64(v.Column), float64(v.Row)},
		Max: orb.Point{float64(v.Column + spanColumns), float64(v.Row + spanRows)},
	}
}

// FootprintWKT バーの占有範囲をWKTのPOLYGONとして返す
func FootprintWKT(v *model.Venue) string {
	return wkt.MarshalString(VenueBound(v).ToPolygon())
}

// FindCoveringVenue 指定セルを占有するバーを探す（見つからなければnil）
func FindCoveringVenue(venues []model.Venue, row, column int) *model.Venue {
	center := CellCenter(row, column)
	for i := range venues {
		if VenueBound(&venues[i]).Contains(center) {
			return &venues[i]
		}
	}
	return nil
}

// FindVenueByOrigin 起点セルが一致するバーを探す（見つからなければnil）
func FindVenueByOrigin(venues []model.Venue, row, column int) *model.Venue {
	for i := range venues {
		if venues[i].IsOrigin(row, column) {
			return &venues[i]
		}
	}
	return nil
}

// SortByOrigin 起点セルの行優先順に並べ替える
func SortByOrigin(venues []model.Venue) {
	sort.SliceStable(venues, func(i, j int) bool {
		if venues[i].Row != venues[j].Row {
			return venues[i].Row < venues[j].Row
		}
		return venues[i].Column < venues[j].Column
	})
}

// FilterVisited 訪問済みのバーのみを抽出する
func FilterVisited(venues []model.Venue) []model.Venue {
	var filtered []model.Venue
	for _, v := range venues {
		if v.Visited {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// CountStats 総数と訪問済み数を集計する
func CountStats(venues []model.Venue) *model.VenueStats {
	stats := &model.VenueStats{Total: len(venues)}
	for _, v := range venues {
		if v.Visited {
			stats.Visited++
		}
	}
	return stats
}
