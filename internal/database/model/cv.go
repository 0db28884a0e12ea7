package model

import "time"

// CV is a stored CV file record. Key is the stable identifier handed back to
// clients on upload; StoredPath is either a local path or an s3:// location.
type CV struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Key         string     `gorm:"size:64;uniqueIndex" json:"key"`
	Filename    string     `gorm:"size:255" json:"filename"`
	ContentType string     `gorm:"size:128" json:"content_type"`
	Size        int64      `json:"size"`
	SHA256      string     `gorm:"size:64;index" json:"sha256"`
	StoredPath  string     `gorm:"size:512" json:"-"`
	Status      string     `gorm:"size:32;default:uploaded" json:"status"`
	UploadedAt  *time.Time `json:"uploaded_at"`
}

func (CV) TableName() string { return "cvs" }

// Candidate is a reviewed CV submission: the extracted fields after a
// recruiter confirmed or edited them.
type Candidate struct {
	ID                    int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CVKey                 string     `gorm:"size:64;index" json:"cv_key"`
	Name                  string     `gorm:"size:255" json:"name"`
	Unemployed            bool       `json:"unemployed"`
	CurrentEmployer       string     `gorm:"size:255" json:"current_employer"`
	CurrentPosition       string     `gorm:"size:255" json:"current_position"`
	Age                   int        `json:"age"`
	Location              string     `gorm:"size:255" json:"location"`
	RecruiterName         string     `gorm:"size:255" json:"recruiter_name"`
	ContactName           string     `gorm:"size:255" json:"contact_name"`
	HardSkills            string     `gorm:"type:text" json:"hard_skills"`
	ExperienceDescription string     `gorm:"type:text" json:"experience_description"`
	YearsOfExperience     int        `json:"years_of_experience"`
	Ungraduated           bool       `json:"ungraduated"`
	Degree                string     `gorm:"size:255" json:"degree"`
	TargetRoles           string     `gorm:"type:text" json:"target_roles"`
	Ambitions             string     `gorm:"type:text" json:"ambitions"`
	TravelMode            string     `gorm:"size:32" json:"travel_mode"`
	MinutesOfRoad         string     `gorm:"size:255" json:"minutes_of_road"`
	OnSiteDays            string     `gorm:"size:64" json:"on_site_days"`
	GrossSalary           int        `json:"gross_salary"`
	SalaryPeriod          string     `gorm:"size:16" json:"salary_period"`
	HoursAWeek            int        `json:"hours_a_week"`
	JobDescription        string     `gorm:"type:text" json:"job_description"`
	CreatedAt             *time.Time `json:"created_at"`
}

func (Candidate) TableName() string { return "candidates" }
