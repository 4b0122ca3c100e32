package restaurantcache

// TableName is the restaurant cache table.
const TableName = "restaurant_cache"

// updateColumns are rewritten when an upsert hits an existing google_place_id.
// id and created_at keep their first-insert values.
var updateColumns = []string{
	fieldName, fieldAddress, fieldLatitude, fieldLongitude, fieldPhone, fieldWebsite,
	fieldRating, fieldRatingsTotal, fieldPriceLevel,
	fieldCuisineTypes, fieldOpeningHours, fieldPhotos,
	fieldUpdatedAt,
}
