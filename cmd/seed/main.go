// cmd/seed/main.go
//
// Development seeder: fills the database with an admin account, hospitals,
// doctors and a week of availability so the booking flow can be exercised
// end to end.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/database"
	"clinic-booking/pkg/utils"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

var specializations = []string{
	"Cardiology", "Dermatology", "Pediatrics", "Neurology",
	"Orthopedics", "General Medicine", "Psychiatry", "ENT",
}

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repos := repository.NewRepository(db, logger)
	ctx := context.Background()

	if err := seedAdmin(ctx, repos); err != nil {
		logger.Fatal("Failed to seed admin", zap.Error(err))
	}

	hospitals, err := seedHospitals(ctx, repos, 3)
	if err != nil {
		logger.Fatal("Failed to seed hospitals", zap.Error(err))
	}

	if err := seedDoctors(ctx, repos, hospitals, 12); err != nil {
		logger.Fatal("Failed to seed doctors", zap.Error(err))
	}

	logger.Info("Seeding finished")
}

func seedAdmin(ctx context.Context, repos *repository.Repository) error {
	existing, err := repos.User.FindByEmail(ctx, "admin@clinic.local")
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &entity.User{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:      "admin",
		FullName:      "Clinic Admin",
		Email:         "admin@clinic.local",
		PasswordHash:  hash,
		Role:          entity.RoleAdmin,
		EmailVerified: true,
		IsActive:      true,
	}

	return repos.User.Create(ctx, admin)
}

func seedHospitals(ctx context.Context, repos *repository.Repository, count int) ([]*entity.Hospital, error) {
	hospitals := make([]*entity.Hospital, 0, count)
	now := time.Now()

	for i := 0; i < count; i++ {
		phone := gofakeit.Phone()
		email := gofakeit.Email()
		hospital := &entity.Hospital{
			Base: entity.Base{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Name:     gofakeit.Company() + " Hospital",
			Location: gofakeit.City(),
			Phone:    &phone,
			Email:    &email,
			IsActive: true,
		}

		if err := repos.Hospital.Create(ctx, hospital); err != nil {
			return nil, err
		}
		hospitals = append(hospitals, hospital)
	}

	return hospitals, nil
}

func seedDoctors(ctx context.Context, repos *repository.Repository, hospitals []*entity.Hospital, count int) error {
	now := time.Now()

	for i := 0; i < count; i++ {
		phone := gofakeit.Phone()
		hospitalID := hospitals[i%len(hospitals)].ID

		doctor := &entity.Doctor{
			Base: entity.Base{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Name:            "Dr. " + gofakeit.Name(),
			Email:           gofakeit.Email(),
			Phone:           &phone,
			Specialization:  specializations[i%len(specializations)],
			ExperienceYears: gofakeit.Number(2, 30),
			ConsultationFee: float64(gofakeit.Number(15, 60)) * 100, // LKR
			HospitalID:      &hospitalID,
			Approved:        true,
			IsActive:        true,
		}

		if err := repos.Doctor.Create(ctx, doctor); err != nil {
			return err
		}

		// One week of 09:00-17:00 availability
		for d := 0; d < 7; d++ {
			availability := &entity.DoctorAvailability{
				BaseSimple: entity.BaseSimple{
					ID:        utils.GenerateUUID(),
					CreatedAt: now,
				},
				DoctorID:  doctor.ID,
				Date:      now.AddDate(0, 0, d).Truncate(24 * time.Hour),
				StartTime: "09:00",
				EndTime:   "17:00",
			}
			if err := repos.Availability.Upsert(ctx, availability); err != nil {
				return err
			}
		}

		fmt.Printf("seeded doctor %s (%s)\n", doctor.Name, doctor.Specialization)
	}

	return nil
}
