// Package mongo provides MongoDB connection management with
// environment-based configuration, retry logic, and a health check helper.
//
// The twofactor/mongostore package persists two-factor credentials in a
// database obtained here; this package only owns the connection lifecycle.
//
// # Usage
//
//	import (
//		"context"
//
//		mongoconn "github.com/sitetrack/authkit/pkg/mongo"
//		"github.com/sitetrack/authkit/pkg/twofactor/mongostore"
//	)
//
//	func main() {
//		cfg := mongoconn.Config{
//			ConnectionURL: "mongodb://localhost:27017",
//		}
//
//		client, err := mongoconn.New(context.Background(), cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer client.Disconnect(context.Background())
//
//		db, err := mongoconn.NewWithDatabase(context.Background(), cfg, "sitetrack")
//		if err != nil {
//			log.Fatal(err)
//		}
//		store := mongostore.New(db)
//
//		health := mongoconn.Healthcheck(client)
//		if err := health(context.Background()); err != nil {
//			log.Println("mongo is unavailable:", err)
//		}
//	}
//
// # Configuration
//
// Configuration is entirely environment-driven; see Config for the variables
// and their pool defaults. Connection failures are wrapped in package
// sentinels so callers can branch with errors.Is().
package mongo
