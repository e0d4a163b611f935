package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const migrationsDir = "db/migrations"

func main() {
	name := flag.String("name", "", "migration name, e.g. add_rooms_index")
	flag.Parse()

	if *name == "" {
		log.Fatal("migration name is required")
	}
	if strings.ContainsAny(*name, " /") {
		log.Fatal("migration name must not contain spaces or slashes")
	}

	version := time.Now().UTC().Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, *name)

	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		log.Fatalf("create migrations dir: %v", err)
	}
	for _, suffix := range []string{".up.sql", ".down.sql"} {
		path := filepath.Join(migrationsDir, base+suffix)
		if _, err := os.Stat(path); err == nil {
			log.Fatalf("file already exists: %s", path)
		}
		if err := os.WriteFile(path, []byte("-- "+strings.TrimPrefix(suffix, ".")+"\n"), 0o644); err != nil {
			log.Fatalf("create migration file: %v", err)
		}
		log.Printf("created %s", path)
	}
}
