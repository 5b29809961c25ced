package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"mapa_editor/internal/config"
)

// dbtool seeds a local database with a demo user and a small map so the
// editor has something to render on first boot. Run the server once first
// so gorm migrates the schema.
func main() {
	reset := flag.Bool("reset", false, "delete demo data before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetEnv("DB_HOST", "localhost"),
		config.GetEnv("DB_USER", "postgres"),
		config.GetEnv("DB_PASSWORD", "password"),
		config.GetEnv("DB_NAME", "mapa_editor"),
		config.GetEnv("DB_PORT", "5432"),
		config.GetEnv("DB_SSLMODE", "disable"),
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if *reset {
		if err := resetDemo(db); err != nil {
			log.Fatalf("reset failed: %v", err)
		}
		log.Println("Demo data removed.")
	}

	if err := seedDemo(db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete. Demo login: demo@mapa.local / demo1234")
}

func resetDemo(db *sql.DB) error {
	var userID int64
	err := db.QueryRow(`SELECT id FROM users WHERE email = 'demo@mapa.local'`).Scan(&userID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup demo user: %w", err)
	}

	stmts := []string{
		`DELETE FROM marcos WHERE route_id IN (SELECT id FROM routes WHERE user_id = $1)`,
		`DELETE FROM routes WHERE user_id = $1`,
		`DELETE FROM presents WHERE user_id = $1`,
		`DELETE FROM credenciados WHERE user_id = $1`,
		`DELETE FROM users WHERE id = $1`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt, userID); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func seedDemo(db *sql.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	var userID int64
	err = db.QueryRow(`
		INSERT INTO users (created_at, updated_at, name, email, password, role)
		VALUES (NOW(), NOW(), 'Demo', 'demo@mapa.local', $1, 'user')
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`, string(hash)).Scan(&userID)
	if err != nil {
		return fmt.Errorf("insert demo user: %w", err)
	}

	var routeID int64
	err = db.QueryRow(`
		INSERT INTO routes (created_at, updated_at, name, color, description, user_id)
		VALUES (NOW(), NOW(), 'Rota Demo', '#22c55e', 'Seeded demo route', $1)
		RETURNING id`, userID).Scan(&routeID)
	if err != nil {
		return fmt.Errorf("insert demo route: %w", err)
	}

	marcos := []struct {
		name, kind string
		lat, lng   float64
	}{
		{"Largada", "start", -16.6805776, -49.4375273},
		{"Meio", "mid", -16.6803000, -49.4372500},
		{"Chegada", "end", -16.6800000, -49.4370000},
	}
	for _, m := range marcos {
		if _, err := db.Exec(`
			INSERT INTO marcos (created_at, updated_at, name, kind, lat, lng, route_id)
			VALUES (NOW(), NOW(), $1, $2, $3, $4, $5)`,
			m.name, m.kind, m.lat, m.lng, routeID); err != nil {
			return fmt.Errorf("insert marco %q: %w", m.name, err)
		}
	}

	if _, err := db.Exec(`
		INSERT INTO presents (created_at, updated_at, name, description, kind, lat, lng, collected, value, collection_radius, user_id)
		VALUES (NOW(), NOW(), 'Moeda de Ouro', 'Seeded demo present', 'currency', -16.6804500, -49.4374000, false, 100, 15, $1)`,
		userID); err != nil {
		return fmt.Errorf("insert demo present: %w", err)
	}

	if _, err := db.Exec(`
		INSERT INTO credenciados (created_at, updated_at, name, description, kind, lat, lng, discount, phone, address, user_id)
		VALUES (NOW(), NOW(), 'Restaurante Central', 'Seeded demo venue', 'restaurant', -16.6807000, -49.4376000, '10%', '+55 62 0000-0000', 'Av. Principal, 100', $1)`,
		userID); err != nil {
		return fmt.Errorf("insert demo credenciado: %w", err)
	}

	return nil
}
