package memory

import (
	"time"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

// SeedExperiments returns the demo experiments the service starts with when
// no database is configured.
func SeedExperiments() []*domain.Experiment {
	at := func(s string) time.Time {
		t, _ := time.Parse(domain.LastModifiedLayout, s)
		return t
	}
	return []*domain.Experiment{
		{
			ID:           "1",
			Title:        "Effect of temperature on reaction rate",
			Goal:         "Measure how the rate of ester hydrolysis changes between 20°C and 60°C",
			Hypothesis:   "The rate roughly doubles for every 10°C increase",
			Timeline:     "2024-03-01 - 2024-04-15",
			Equipment:    "Thermostatic bath, spectrophotometer",
			Budget:       "150 000",
			Status:       domain.StatusInProgress,
			LastModified: "2024-03-20 14:30",
			Files:        []string{"kinetics_raw.xlsx", "setup_photo.jpg"},
			CreatedAt:    at("2024-03-01 09:00"),
		},
		{
			ID:           "2",
			Title:        "Optimizing synthesis of polymer nanocapsules",
			Goal:         "Reduce capsule size dispersion below 10%",
			Hypothesis:   "Slower monomer dosing narrows the size distribution",
			Timeline:     "2024-01-10 - 2024-03-10",
			Equipment:    "Reactor R-200, DLS analyzer",
			Budget:       "320 000",
			Status:       domain.StatusCompleted,
			LastModified: "2024-03-11 09:15",
			Files:        []string{"dls_report.pdf"},
			CreatedAt:    at("2024-01-10 10:00"),
		},
		{
			ID:           "3",
			Title:        "Antibacterial coating durability",
			Goal:         "Estimate coating lifetime under repeated cleaning cycles",
			Hypothesis:   "Silver-doped coating keeps activity after 500 cycles",
			Timeline:     "2024-02-01 - 2024-06-01",
			Equipment:    "Abrasion tester, incubator",
			Budget:       "210 000",
			Status:       domain.StatusPaused,
			LastModified: "2024-02-28 17:45",
			CreatedAt:    at("2024-02-01 08:30"),
		},
		{
			ID:           "4",
			Title:        "Soil microbiome sequencing",
			Goal:         "Compare microbial diversity of treated and control plots",
			Hypothesis:   "Biochar treatment increases diversity",
			Timeline:     "2023-09-01 - 2023-12-20",
			Equipment:    "Sequencer, PCR cycler",
			Budget:       "480 000",
			Status:       domain.StatusOther,
			LastModified: "2023-12-22 11:00",
			Files:        []string{"otu_table.xlsx", "report.docx"},
			CreatedAt:    at("2023-09-01 12:00"),
		},
	}
}

// SeedUser is the profile shown when nobody has signed in.
func SeedUser() *domain.User {
	birth, city, education := "1990-05-14", "Moscow", "MSU, Faculty of Chemistry"
	return &domain.User{
		ID:        "user-1",
		Name:      "Anna Smirnova",
		Position:  "Senior researcher",
		Phone:     "+7 900 123-45-67",
		BirthDate: &birth,
		City:      &city,
		Education: &education,
	}
}

// SeedNotifications returns the notifications present at start, newest first.
func SeedNotifications(now time.Time) []domain.Notification {
	return []domain.Notification{
		{
			ID:        "1",
			Title:     "Experiment deadline approaching",
			Message:   "\"Effect of temperature on reaction rate\" ends in 3 days",
			Type:      domain.NotificationWarning,
			Timestamp: now,
		},
		{
			ID:        "2",
			Title:     "Report uploaded",
			Message:   "A new report was attached to \"Optimizing synthesis of polymer nanocapsules\"",
			Type:      domain.NotificationInfo,
			Timestamp: now.Add(-24 * time.Hour),
			Read:      true,
		},
	}
}
