package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/you/coursepay/internal/domain"
	"github.com/you/coursepay/internal/repository"
	"github.com/you/coursepay/pkg/db"
)

// Seeds a course offering so the reconciliation flow has something to
// enroll into. Catalog management proper lives outside this service.
func main() {
	id := flag.String("id", "", "offering id (generated when empty)")
	course := flag.String("course", "", "course name")
	start := flag.String("start", "", "start date, YYYY-MM-DD")
	price := flag.Int64("price", 0, "list price in minor units")
	flag.Parse()

	if *course == "" || *start == "" || *price <= 0 {
		log.Fatal("usage: seeder -course NAME -start YYYY-MM-DD -price MINOR_UNITS [-id ID]")
	}
	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatal(err)
	}

	_ = godotenv.Load()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		log.Fatal("PG_DSN is required")
	}

	gdb := db.Open(dsn)
	repo := repository.NewOfferingRepo(gdb)
	if err := repo.Migrate(); err != nil {
		log.Fatal(err)
	}

	o := &domain.CourseOffering{
		ID:         *id,
		CourseName: *course,
		StartDate:  startDate,
		ListPrice:  *price,
	}
	if err := repo.Create(context.Background(), o); err != nil {
		log.Fatal(err)
	}
	log.Printf("seeded offering id=%s course=%s", o.ID, o.CourseName)
}
