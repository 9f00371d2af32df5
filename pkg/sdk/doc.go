// Package firequery is a read-only Go client for the Firestore REST API.
//
// It turns a small query description into a structured query, posts it to
// the :runQuery endpoint and hands back plain records: every tagged field
// value is unwrapped and each listed record carries its document id under
// the "id" key.
//
// # Options struct
//
//	client, _ := firequery.New("my-project")
//	recs, _ := client.List(ctx, "users", &firequery.QueryOptions{
//	    Where:     []firequery.Where{{Field: "age", Op: firequery.OpGreaterThanOrEqual, Value: 18}},
//	    OrderBy:   "age",
//	    Direction: firequery.Descending,
//	    Limit:     firequery.Int(10),
//	})
//
// # Fluent builder
//
//	recs, _ := client.Query("users/u1/messages").
//	    Where("read", firequery.OpEqual, false).
//	    Select("text", "sentAt").
//	    Limit(50).
//	    Do(ctx)
//
// Configuration lives on the Client. Setters are not synchronized: do not
// change the base URL or project while requests are in flight.
package firequery
