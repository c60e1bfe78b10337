// Command seed loads a demo account with a week of study history so a
// fresh environment has something to look at.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/tomfenwick/studytrack/internal/config"
	"github.com/tomfenwick/studytrack/internal/infra/postgres"
	"github.com/tomfenwick/studytrack/internal/infra/postgres/repository"
	"github.com/tomfenwick/studytrack/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		log.Fatal(err)
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	quizRepo := repository.NewQuizResultRepository(pool)
	flashcardRepo := repository.NewFlashcardRepository(pool)
	transactor := postgres.NewTransactor(pool)

	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	achievementSvc := service.NewAchievementService(userRepo, transactor)
	progressSvc := service.NewProgressService(userRepo, sessionRepo, quizRepo, flashcardRepo, achievementSvc, transactor)
	flashcardSvc := service.NewFlashcardService(flashcardRepo, achievementSvc, transactor)
	authSvc := service.NewAuthService(userRepo, achievementSvc, tokens)

	result, err := authSvc.Register(ctx, service.RegisterInput{
		Username:  "demo",
		Email:     "demo@studytrack.local",
		Password:  "demo-password",
		FirstName: "Demo",
		LastName:  "Student",
		School:    "Northfield High",
		TargetGrades: map[string]int{
			"maths":           7,
			"english":         6,
			"science":         8,
			"geography":       6,
			"french":          5,
			"computerscience": 8,
		},
	})
	if err != nil {
		log.Fatalf("register demo user: %v", err)
	}
	userID := result.User.ID

	sessions := []service.RecordSessionInput{
		{Subject: "maths", Topic: "Algebra", SessionType: "revision", DurationMinutes: 45, Completed: true},
		{Subject: "science", Topic: "Cells", SessionType: "homework", DurationMinutes: 60, Completed: true},
		{Subject: "english", Topic: "Poetry", SessionType: "revision", DurationMinutes: 30, Completed: true},
		{Subject: "french", Topic: "Vocabulary", SessionType: "practice", DurationMinutes: 25, Completed: true},
	}
	for _, input := range sessions {
		if _, err := progressSvc.RecordStudySession(ctx, userID, input); err != nil {
			log.Fatalf("record session: %v", err)
		}
	}

	quizzes := []service.RecordQuizInput{
		{Subject: "maths", Topic: "Algebra", ScorePercent: 85, CorrectAnswers: 17, TotalQuestions: 20, TimeSpentSeconds: 420},
		{Subject: "science", Topic: "Cells", ScorePercent: 70, CorrectAnswers: 7, TotalQuestions: 10, TimeSpentSeconds: 300},
		{Subject: "maths", Topic: "Geometry", ScorePercent: 100, CorrectAnswers: 10, TotalQuestions: 10, TimeSpentSeconds: 250},
	}
	for _, input := range quizzes {
		if _, err := progressSvc.RecordQuizResult(ctx, userID, input); err != nil {
			log.Fatalf("record quiz: %v", err)
		}
	}

	cards := []service.CreateFlashcardInput{
		{Subject: "french", Topic: "Vocabulary", Front: "le chien", Back: "the dog"},
		{Subject: "french", Topic: "Vocabulary", Front: "la maison", Back: "the house"},
		{Subject: "science", Topic: "Cells", Front: "Mitochondria", Back: "Site of aerobic respiration"},
	}
	for _, input := range cards {
		if _, err := flashcardSvc.Create(ctx, userID, input); err != nil {
			log.Fatalf("create flashcard: %v", err)
		}
	}

	log.Printf("seeded demo user %s (login demo@studytrack.local / demo-password)", userID)
}
