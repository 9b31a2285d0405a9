package elasticsearch

// DefaultIndexName is the default Elasticsearch index for restaurant documents.
const DefaultIndexName = "restaurants"

// buildIndexMapping returns the JSON mapping for the restaurant index. The
// geo_location field must be a geo_point for geo_distance filters to work,
// and average_rating must be numeric for range filters.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  },
  "mappings": {
    "properties": {
      "id":                  { "type": "keyword" },
      "name":                { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } } },
      "cuisine_type":        { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } } },
      "contact_information": { "type": "keyword", "index": false },
      "address": {
        "properties": {
          "street_number": { "type": "keyword" },
          "street_name":   { "type": "text" },
          "unit":          { "type": "keyword" },
          "city":          { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
          "state":         { "type": "keyword" },
          "postal_code":   { "type": "keyword" },
          "country":       { "type": "keyword" }
        }
      },
      "operating_hours":     { "type": "object", "enabled": false },
      "geo_location":        { "type": "geo_point" },
      "average_rating":      { "type": "float" },
      "photos":              { "type": "object", "enabled": false },
      "reviews": {
        "properties": {
          "id":          { "type": "keyword" },
          "content":     { "type": "text" },
          "rating":      { "type": "integer" },
          "date_posted": { "type": "date" },
          "last_edited": { "type": "date" },
          "written_by": {
            "properties": {
              "id":          { "type": "keyword" },
              "username":    { "type": "keyword" },
              "given_name":  { "type": "keyword" },
              "family_name": { "type": "keyword" }
            }
          }
        }
      },
      "created_at":          { "type": "date" },
      "updated_at":          { "type": "date" }
    }
  }
}`
}
