package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"famledger/api"
	"famledger/cache"
	"famledger/config"
	"famledger/logger"
	"famledger/middleware"
	"famledger/session"
	"famledger/store"
)

func main() {
	configPath := flag.String("config", "", "Path to an optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	c, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		log.Fatal("opening local cache failed", zap.Error(err))
	}
	defer c.Close()

	ctx := context.Background()
	st, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatal("initializing document store failed", zap.Error(err))
	}

	sessions := session.NewManager(st, c)
	defer sessions.Shutdown()

	server := api.NewServer(st, sessions)
	srv := &http.Server{
		Handler:      server.Handler(),
		Addr:         ":" + cfg.Server.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Info("starting server", zap.String("port", cfg.Server.Port), zap.Bool("devMode", cfg.Server.DevMode))
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// buildStore picks the backend: the in-memory store in dev mode, Firestore
// otherwise. Firebase auth verification follows the same switch.
func buildStore(ctx context.Context, cfg *config.Config) (store.DocumentStore, error) {
	if cfg.Server.DevMode {
		if err := middleware.InitializeAuth(ctx, nil); err != nil {
			return nil, err
		}
		return store.NewMemory(), nil
	}

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.Firebase.CredentialsJSON)))
	} else if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, err
	}
	if err := middleware.InitializeAuth(ctx, app); err != nil {
		return nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, err
	}
	return store.NewFirestore(client), nil
}
