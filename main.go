package main

import (
	"flag"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"yatube/cache"
	"yatube/crud"
	"yatube/http"
	"yatube/storage"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	// Load configuration from a .config.json file if present, otherwise use the default dev setup.
	config := LoadConfig(*productionBool)
	if config.IsProd() {
		log.SetFormatter(&log.JSONFormatter{})
	}

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.HMACKey, config.Pepper),
		crud.WithGroup(),
		crud.WithPost(),
		crud.WithComment(),
		crud.WithFollow(),
	)
	must(err)

	// The index page cache lives in Redis so multiple app processes
	// share it. Without an address configured we fall back to an
	// in-process map, fine for a single dev instance.
	var pageCache cache.Store
	if config.Redis.Addr != "" {
		pageCache = cache.NewRedisStore(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
	} else {
		pageCache = cache.NewMemoryStore()
	}

	// Post images go into a MinIO bucket.
	images, err := storage.NewImageService(
		config.Minio.Endpoint,
		config.Minio.AccessKey,
		config.Minio.SecretKey,
		config.Minio.Bucket,
		config.Minio.UseSSL,
	)
	must(err)

	// Set up a webserver.
	server := http.NewServer(
		config.IsProd(),
		config.CSRFAuthKey,
		services.User,
		services.Group,
		services.Post,
		services.Comment,
		services.Follow,
		images,
		pageCache,
	)

	// Serve the app.
	log.Infof("listening on port %d", config.Port)
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
