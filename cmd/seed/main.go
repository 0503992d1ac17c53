// Command seed fills the travel database with sample tours and an admin
// account. Existing records are left alone, so it can be run repeatedly.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/parasjain182005/Travel-Website/internal/auth"
	"github.com/parasjain182005/Travel-Website/internal/config"
	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/migrations"
	"github.com/parasjain182005/Travel-Website/internal/repository/postgres"
	"github.com/parasjain182005/Travel-Website/internal/service"
	"github.com/parasjain182005/Travel-Website/pkg/database"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	"github.com/parasjain182005/Travel-Website/pkg/logger"
)

var sampleTours = []service.CreateTourInput{
	{Title: "Westminster Bridge", City: "London", Address: "Westminster, London SW1A", Distance: 300, Price: 99, MaxGroupSize: 10, Featured: true,
		Photo: "/tour-images/tour-img01.jpg", Desc: "An evening walk across the Thames with views of Big Ben."},
	{Title: "Bali, Indonesia", City: "Bali", Address: "Ubud, Bali", Distance: 400, Price: 99, MaxGroupSize: 8, Featured: true,
		Photo: "/tour-images/tour-img02.jpg", Desc: "Rice terraces, temples and a day at the monkey forest."},
	{Title: "Snowy Mountains, Thailand", City: "Bangkok", Address: "Doi Inthanon, Chiang Mai", Distance: 500, Price: 99, MaxGroupSize: 8, Featured: true,
		Photo: "/tour-images/tour-img03.jpg", Desc: "A cold morning climb to the highest point in Thailand."},
	{Title: "Beautiful Sunrise, Thailand", City: "Phuket", Address: "Promthep Cape, Phuket", Distance: 500, Price: 99, MaxGroupSize: 8, Featured: true,
		Photo: "/tour-images/tour-img04.jpg", Desc: "Sunrise over the Andaman Sea followed by breakfast on the beach."},
	{Title: "Nusa Penida, Bali", City: "Bali", Address: "Kelingking Beach, Nusa Penida", Distance: 500, Price: 99, MaxGroupSize: 8,
		Photo: "/tour-images/tour-img05.jpg", Desc: "Cliffs, snorkelling with manta rays and hidden beaches."},
	{Title: "Cherry Blossoms Spring", City: "Tokyo", Address: "Ueno Park, Tokyo", Distance: 500, Price: 99, MaxGroupSize: 8,
		Photo: "/tour-images/tour-img06.jpg", Desc: "Hanami picnics under the cherry trees of Ueno and Chidorigafuchi."},
	{Title: "Holmen Lofoten", City: "Lofoten", Address: "Henningsvaer, Lofoten", Distance: 500, Price: 99, MaxGroupSize: 8,
		Photo: "/tour-images/tour-img07.jpg", Desc: "Fishing villages and northern lights above the Arctic Circle."},
	{Title: "Jaflong, Sylhet", City: "Sylhet", Address: "Jaflong, Sylhet", Distance: 500, Price: 99, MaxGroupSize: 8,
		Photo: "/tour-images/tour-img08.jpg", Desc: "Tea gardens and the clear waters of the Dawki river."},
}

var extraCities = []string{"London", "Bali", "Bangkok", "Phuket", "Tokyo", "Lofoten", "Sylhet", "Paris", "Lisbon", "Cusco"}

func main() {
	extra := flag.Int("extra", 0, "number of generated tours to add after the samples")
	adminEmail := flag.String("admin-email", "admin@example.com", "email of the admin account")
	adminPassword := flag.String("admin-password", "", "password of the admin account (skipped when empty)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("travel-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, log, *extra, *adminEmail, *adminPassword); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, extra int, adminEmail, adminPassword string) error {
	pool, err := database.NewPostgresPool(ctx, database.PostgresConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: 4,
		MinConns: 1,
	}, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	userRepo := postgres.NewUserRepository(pool)
	tours := service.NewTourService(postgres.NewTourRepository(pool), postgres.NewReviewRepository(pool), log)
	users := service.NewUserService(userRepo, auth.NewJWTManager(cfg.JWTSecret), log)

	if adminPassword != "" {
		if err := seedAdmin(ctx, users, userRepo, adminEmail, adminPassword); err != nil {
			return err
		}
		log.Info("admin account ready", slog.String("email", adminEmail))
	}

	inputs := append([]service.CreateTourInput{}, sampleTours...)
	for i := 0; i < extra; i++ {
		inputs = append(inputs, generatedTour(i))
	}

	created, skipped := 0, 0
	for _, in := range inputs {
		_, err := tours.CreateTour(ctx, in)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrConflict):
			skipped++
		default:
			return fmt.Errorf("create tour %q: %w", in.Title, err)
		}
	}

	log.Info("seed complete", slog.Int("created", created), slog.Int("skipped", skipped))
	return nil
}

func seedAdmin(ctx context.Context, users *service.UserService, repo *postgres.UserRepository, email, password string) error {
	_, err := users.Register(ctx, service.RegisterInput{Username: "admin", Email: email, Password: password})
	if err != nil && !errors.Is(err, apperrors.ErrConflict) {
		return fmt.Errorf("register admin: %w", err)
	}

	u, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("load admin: %w", err)
	}
	if u.Role == domain.RoleAdmin {
		return nil
	}
	u.Role = domain.RoleAdmin
	if err := repo.Update(ctx, u); err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	return nil
}

func generatedTour(i int) service.CreateTourInput {
	city := extraCities[i%len(extraCities)]
	return service.CreateTourInput{
		Title:        fmt.Sprintf("%s Explorer %d", city, i+1),
		City:         city,
		Address:      fmt.Sprintf("%d Old Town, %s", rand.IntN(200)+1, city),
		Distance:     float64(100 + rand.IntN(900)),
		Photo:        fmt.Sprintf("/tour-images/tour-img%02d.jpg", i%8+1),
		Desc:         fmt.Sprintf("A guided day around %s with local food and history.", city),
		Price:        float64(49 + rand.IntN(450)),
		MaxGroupSize: 4 + rand.IntN(16),
		Featured:     i%25 == 0,
	}
}
