package emails

import (
	"encoding/json"
	"strconv"
	"strings"

	"recruit-cv/config"
	"recruit-cv/internal/core/email"
	"recruit-cv/internal/database"
	"recruit-cv/internal/database/model"
	"recruit-cv/pkg/apperror"
	"recruit-cv/pkg/apperror/status"
	"recruit-cv/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/samber/lo"
)

// Handler serves email generation for reviewed candidate submissions.
type Handler struct {
	validate *validator.Validate
	persist  bool
}

// NewHandler builds the handler. persist controls whether accepted
// submissions are recorded as candidates; tests run without a database.
func NewHandler(persist bool) *Handler {
	return &Handler{validate: validator.New(), persist: persist}
}

type generateResponse struct {
	Email     email.Email `json:"email"`
	Candidate int64       `json:"candidateId,omitempty"`
}

// HandleGenerate validates the submission, produces the introduction email
// and records the candidate.
func (h *Handler) HandleGenerate(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	var sub email.Submission
	if err := json.Unmarshal(c.Body(), &sub); err != nil {
		return apperror.BadRequest(config.ModuleEmail, c, status.InvalidRequestBody, err.Error())
	}
	if err := h.validate.Struct(sub); err != nil {
		return apperror.BadRequest(config.ModuleEmail, c, status.MissingParams, err.Error())
	}

	generated := email.Generate(c.Context(), sub)

	resp := generateResponse{Email: generated}
	if h.persist {
		candidate := candidateFrom(sub)
		if err := database.CreateEntity(c.Context(), candidate); err != nil {
			// The email was already produced; losing the record is
			// logged but not surfaced as a failure.
			logger.Error(err, "%v: persist candidate failed", config.ModuleEmail)
		} else {
			resp.Candidate = candidate.ID
		}
	}

	return apperror.Success(config.ModuleEmail, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "email generated",
		TrackingID: trackingID,
		Data:       resp,
	})
}

func candidateFrom(sub email.Submission) *model.Candidate {
	return &model.Candidate{
		Name:                  sub.CandidateName,
		Unemployed:            sub.Unemployed,
		CurrentEmployer:       sub.CurrentEmployer,
		CurrentPosition:       sub.CurrentPosition,
		Age:                   sub.Age,
		Location:              sub.Location,
		RecruiterName:         sub.RecruiterName,
		ContactName:           sub.ContactName,
		HardSkills:            strings.Join(sub.HardSkills, ","),
		ExperienceDescription: sub.ExperienceDescription,
		YearsOfExperience:     sub.YearsOfExperience,
		Ungraduated:           sub.Ungraduated,
		Degree:                sub.Degree,
		TargetRoles:           strings.Join(sub.TargetRoles, ","),
		Ambitions:             sub.Ambitions,
		TravelMode:            sub.TravelMode,
		MinutesOfRoad:         joinInts(sub.MinutesOfRoad),
		OnSiteDays:            joinInts(sub.OnSiteDays),
		GrossSalary:           sub.GrossSalary,
		SalaryPeriod:          sub.SalaryPeriod,
		HoursAWeek:            sub.HoursAWeek,
		JobDescription:        sub.JobDescriptionText,
	}
}

func joinInts(values []int) string {
	return strings.Join(lo.Map(values, func(v int, _ int) string {
		return strconv.Itoa(v)
	}), ",")
}
