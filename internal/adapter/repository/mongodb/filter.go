package mongodb

import (
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// toBSONFilter translates a predicate tree into a MongoDB query document.
func toBSONFilter(p domain.Predicate) (bson.D, error) {
	switch v := p.(type) {
	case nil:
		return bson.D{}, nil
	case domain.And:
		if len(v) == 0 {
			return bson.D{}, nil
		}
		if len(v) == 1 {
			return toBSONFilter(v[0])
		}
		clauses := make(bson.A, 0, len(v))
		for _, child := range v {
			c, err := toBSONFilter(child)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, c)
		}
		return bson.D{{Key: "$and", Value: clauses}}, nil
	case domain.Equality:
		if err := checkField(v.Field); err != nil {
			return nil, err
		}
		return bson.D{{Key: v.Field, Value: v.Value}}, nil
	case domain.Range:
		if err := checkField(v.Field); err != nil {
			return nil, err
		}
		if _, ok := domain.RangeOp(string(v.Op)); !ok {
			return nil, fmt.Errorf("mongodb: unsupported range operator %q", v.Op)
		}
		return bson.D{{Key: v.Field, Value: bson.D{{Key: "$" + string(v.Op), Value: v.Value}}}}, nil
	case domain.SetMembership:
		if err := checkField(v.Field); err != nil {
			return nil, err
		}
		values := bson.A(v.Values)
		if values == nil {
			values = bson.A{}
		}
		return bson.D{{Key: v.Field, Value: bson.D{{Key: "$in", Value: values}}}}, nil
	}
	return nil, fmt.Errorf("mongodb: unsupported predicate %T", p)
}

// Operator injection guard. Field names reaching here were allow-listed
// already.
func checkField(field string) error {
	if field == "" || strings.ContainsRune(field, '$') {
		return fmt.Errorf("mongodb: illegal field path %q", field)
	}
	return nil
}

// findOptions maps a view onto sort, skip, limit and projection.
func findOptions(view domain.View) *options.FindOptions {
	opts := options.Find()
	if len(view.Sort) > 0 {
		sort := make(bson.D, 0, len(view.Sort)+1)
		for _, s := range view.Sort {
			dir := 1
			if s.Descending {
				dir = -1
			}
			sort = append(sort, bson.E{Key: s.Field, Value: dir})
		}
		// stable paging across equal sort keys
		sort = append(sort, bson.E{Key: "_id", Value: 1})
		opts.SetSort(sort)
	}
	if view.Skip > 0 {
		opts.SetSkip(view.Skip)
	}
	if view.Limit > 0 {
		opts.SetLimit(view.Limit)
	}
	if len(view.Exclude) > 0 {
		proj := make(bson.D, 0, len(view.Exclude))
		for _, f := range view.Exclude {
			proj = append(proj, bson.E{Key: f, Value: 0})
		}
		opts.SetProjection(proj)
	}
	return opts
}

// updateDocument builds the $set for a listing update. Only non-nil fields
// are written.
func updateDocument(upd domain.ListingUpdate) bson.D {
	set := bson.D{}
	add := func(key string, v any) { set = append(set, bson.E{Key: key, Value: v}) }

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Address != nil {
		add("address", toAddressDocument(*upd.Address))
	}
	if upd.PgType != nil {
		add("pgType", string(*upd.PgType))
	}
	if upd.Sharing != nil {
		add("sharing", toSharingDocuments(upd.Sharing))
	}
	if upd.MinPrice != nil {
		add("minPrice", *upd.MinPrice)
	}
	if upd.MaxPrice != nil {
		add("maxPrice", *upd.MaxPrice)
	}
	if upd.PgAmenities != nil {
		add("pgAmenities", upd.PgAmenities)
	}
	if upd.PgRules != nil {
		add("pgRules", upd.PgRules)
	}
	if upd.Food != nil {
		add("food", toFoodStrings(upd.Food))
	}
	if upd.PgContactInfo != nil {
		add("pgContactInfo", contactDocument(*upd.PgContactInfo))
	}
	if upd.NoticePeriodDays != nil {
		add("noticePeriodDays", *upd.NoticePeriodDays)
	}
	if upd.SecurityDeposit != nil {
		add("securityDeposit", *upd.SecurityDeposit)
	}
	if upd.Location != nil {
		add("location", toPointDocument(upd.Location))
	}
	if upd.Geohash != nil {
		add("geohash", *upd.Geohash)
	}
	add("updatedAt", upd.UpdatedAt)
	return bson.D{{Key: "$set", Value: set}}
}

// patchFields renders the update as JSON field names for schema validation.
func patchFields(upd domain.ListingUpdate) map[string]any {
	out := map[string]any{}
	for _, e := range updateDocument(upd)[0].Value.(bson.D) {
		switch e.Key {
		case "address":
			out[e.Key] = *upd.Address
		case "sharing":
			out[e.Key] = upd.Sharing
		case "pgContactInfo":
			out[e.Key] = *upd.PgContactInfo
		case "location":
			out[e.Key] = upd.Location
		case "food":
			out[e.Key] = upd.Food
		default:
			out[e.Key] = e.Value
		}
	}
	return out
}
