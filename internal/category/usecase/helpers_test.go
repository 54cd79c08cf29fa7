package usecase

import "github.com/fekuna/omnipos-catalog-service/internal/query"

func paramsFor(storeID string) query.Params {
	return query.Params{StoreID: storeID}.Normalize()
}
