// main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"aruth-api/config"
	"aruth-api/logger"
	"aruth-api/store"
	"aruth-api/store/memstore"
	"aruth-api/store/mongostore"
	"aruth-api/store/redisstore"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "aruth-api",
	Short:         "Aruth e-commerce API",
	Long:          "Aruth serves the storefront and admin REST API of the shop. Settings come from the environment or a .env file.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(adminCmd)
}

// connectTimeout bounds the start up connections to MongoDB and Redis
const connectTimeout = 15 * time.Second

// openStore connects the configured store and sequence drivers. The returned
// closer releases every connection it opened.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	log := logger.L
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var (
		st      store.Store
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using the in-memory store, data is lost on exit")
		st = memstore.New().Store()
	default:
		db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return store.Store{}, nil, err
		}
		closers = append(closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Close(shutdownCtx); err != nil {
				log.Error("mongo disconnect", "error", err)
			}
		})
		if err := db.EnsureIndexes(ctx); err != nil {
			closeAll()
			return store.Store{}, nil, err
		}
		log.Info("connected to MongoDB", "database", cfg.MongoDB)
		st = db.Store()
	}

	if cfg.SequenceDriver == config.DriverRedis {
		rdb, err := redisstore.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			closeAll()
			return store.Store{}, nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		log.Info("order numbers sequenced by Redis", "addr", cfg.RedisAddr)
		seq := redisstore.NewSequencer(rdb)
		st.Sequence = seq
		st.Health = store.Pingers{st.Health, seq}
	}

	return st, closeAll, nil
}
