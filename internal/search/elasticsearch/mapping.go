package elasticsearch

// DefaultIndexName is the index tour documents are stored in.
const DefaultIndexName = "travel_tours"

// indexMapping is the settings and mapping used when the index is created.
// title also carries an edge n-gram subfield so partial words match.
const indexMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "autocomplete_analyzer": {
          "type": "custom",
          "tokenizer": "autocomplete_tokenizer",
          "filter": ["lowercase", "asciifolding"]
        },
        "autocomplete_search": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "asciifolding"]
        }
      },
      "tokenizer": {
        "autocomplete_tokenizer": {
          "type": "edge_ngram",
          "min_gram": 2,
          "max_gram": 20,
          "token_chars": ["letter", "digit"]
        }
      },
      "normalizer": {
        "lowercase_normalizer": {
          "type": "custom",
          "filter": ["lowercase", "asciifolding"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":             { "type": "keyword" },
      "title":          { "type": "text", "analyzer": "english", "fields": { "autocomplete": { "type": "text", "analyzer": "autocomplete_analyzer", "search_analyzer": "autocomplete_search" } } },
      "slug":           { "type": "keyword" },
      "city":           { "type": "text", "fields": { "exact": { "type": "keyword", "normalizer": "lowercase_normalizer" } } },
      "address":        { "type": "text" },
      "desc":           { "type": "text", "analyzer": "english" },
      "distance":       { "type": "double" },
      "price":          { "type": "double" },
      "max_group_size": { "type": "integer" },
      "featured":       { "type": "boolean" },
      "created_at":     { "type": "date" }
    }
  }
}`
