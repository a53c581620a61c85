package main

import (
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshcart/fruit-shop-backend/internal/cart"
	"github.com/freshcart/fruit-shop-backend/internal/config"
	"github.com/freshcart/fruit-shop-backend/internal/order"
	"github.com/freshcart/fruit-shop-backend/internal/product"
	"github.com/freshcart/fruit-shop-backend/internal/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	mustEnsureSchema(db)

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	cartRepo := cart.NewPostgresRepository(db)
	cartService := cart.NewService(cartRepo, productService)
	cartHandler := cart.NewHandler(cartService, userService)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, cartService)
	orderHandler := order.NewHandler(orderService, userService, productService)

	// public routes must be registered before the JWT middleware
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	// drain in-flight requests before releasing the pool
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Printf("%s %s -> %d (%s)", c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
	return err
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func mustEnsureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'customer',
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id SERIAL PRIMARY KEY,
			product_name TEXT NOT NULL,
			price NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
			stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
			image TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			user_id INT PRIMARY KEY,
			items JSONB NOT NULL DEFAULT '[]',
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			items JSONB NOT NULL DEFAULT '[]',
			total_amount NUMERIC NOT NULL DEFAULT 0,
			delivery_address TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'Placed',
			created_at TEXT,
			updated_at TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
