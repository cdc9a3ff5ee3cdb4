// Package seed loads sample doctors and a demo patient so a fresh install
// has something to book against.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/mhalligan/clinicbook/internal/auth"
	"github.com/mhalligan/clinicbook/internal/doctors"
	"github.com/mhalligan/clinicbook/internal/users"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

type sampleDoctor struct {
	user    users.CreateUserRequest
	profile doctors.CreateDoctorRequest
}

var sampleDoctors = []sampleDoctor{
	{
		user: users.CreateUserRequest{
			Username: "dr_sarah", Email: "sarah.johnson@clinicbook.example",
			FullName: "Sarah Johnson", PhoneNumber: "5550100001", Role: users.RoleDoctor,
		},
		profile: doctors.CreateDoctorRequest{
			Specialization:       "Cardiology",
			Qualifications:       "MD, FACC",
			YearsOfExperience:    12,
			ConsultationFeeCents: 15000,
			AboutText:            "Focused on preventive cardiology and long-term heart health.",
		},
	},
	{
		user: users.CreateUserRequest{
			Username: "dr_chen", Email: "michael.chen@clinicbook.example",
			FullName: "Michael Chen", PhoneNumber: "5550100002", Role: users.RoleDoctor,
		},
		profile: doctors.CreateDoctorRequest{
			Specialization:       "Pediatrics",
			Qualifications:       "MD, FAAP",
			YearsOfExperience:    8,
			ConsultationFeeCents: 10000,
			AboutText:            "Cares for newborns through teens, with a focus on developmental health.",
		},
	},
	{
		user: users.CreateUserRequest{
			Username: "dr_patel", Email: "priya.patel@clinicbook.example",
			FullName: "Priya Patel", PhoneNumber: "5550100003", Role: users.RoleDoctor,
		},
		profile: doctors.CreateDoctorRequest{
			Specialization:       "Dermatology",
			Qualifications:       "MD, FAAD",
			YearsOfExperience:    10,
			ConsultationFeeCents: 12500,
			AvailableDays:        "Mon,Wed,Fri",
			AboutText:            "Treats general and surgical dermatology cases.",
		},
	},
	{
		user: users.CreateUserRequest{
			Username: "dr_brown", Email: "emily.brown@clinicbook.example",
			FullName: "Emily Brown", PhoneNumber: "5550100004", Role: users.RoleDoctor,
		},
		profile: doctors.CreateDoctorRequest{
			Specialization:       "Orthopedics",
			Qualifications:       "MD, FAAOS",
			YearsOfExperience:    15,
			ConsultationFeeCents: 17500,
			AvailableDays:        "Tue,Thu",
			AvailableTimeSlots:   "10:00,11:00,14:00",
			AboutText:            "Specializes in sports injuries and joint replacement.",
		},
	},
}

var samplePatient = users.CreateUserRequest{
	Username: "patient1", Email: "john.doe@clinicbook.example",
	FullName: "John Doe", PhoneNumber: "5550200001", Role: users.RolePatient,
}

// samplePassword is only for local development installs.
const samplePassword = "password123"

// Run inserts the sample accounts, skipping any username that already
// exists so it is safe to call on every boot.
func Run(ctx context.Context, usrs users.Repository, docs doctors.Repository, log *logging.Logger) error {
	for _, sd := range sampleDoctors {
		id, err := createUser(ctx, usrs, sd.user)
		if err != nil {
			return err
		}
		if id == "" {
			continue // already seeded
		}
		profile := sd.profile
		profile.UserID = id
		if _, err := docs.Create(ctx, &profile); err != nil && !errors.Is(err, doctors.ErrProfileExists) {
			return fmt.Errorf("seed: doctor profile for %s: %w", sd.user.Username, err)
		}
		log.Info("seeded doctor", "username", sd.user.Username, "specialization", profile.Specialization)
	}

	id, err := createUser(ctx, usrs, samplePatient)
	if err != nil {
		return err
	}
	if id != "" {
		log.Info("seeded patient", "username", samplePatient.Username)
	}
	return nil
}

func createUser(ctx context.Context, usrs users.Repository, req users.CreateUserRequest) (string, error) {
	req.Password = samplePassword
	hash, err := auth.HashPassword(samplePassword)
	if err != nil {
		return "", fmt.Errorf("seed: hash password: %w", err)
	}
	u, err := usrs.Create(ctx, &req, hash)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) || errors.Is(err, users.ErrEmailTaken) {
			return "", nil
		}
		return "", fmt.Errorf("seed: create %s: %w", req.Username, err)
	}
	return u.ID, nil
}
