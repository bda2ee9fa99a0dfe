package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	pkgerrors "github.com/learnloop/learnloop-backend/internal/pkg/errors"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
	"github.com/learnloop/learnloop-backend/internal/repos"
)

type SubmitAssessmentInput struct {
	UserID       uuid.UUID         `json:"user_id"`
	ModuleID     uuid.UUID         `json:"module_id"`
	AssessmentID uuid.UUID         `json:"assessment_id"`
	Answers      map[string]string `json:"answers"`
}

// SubmissionResult reports the graded attempt together with the
// recomputed path state it produced.
type SubmissionResult struct {
	Score              float64    `json:"score"`
	Passed             bool       `json:"passed"`
	Attempt            int        `json:"attempt"`
	ModuleStatus       string     `json:"module_status"`
	PathStatus         string     `json:"path_status"`
	ProgressPercentage int        `json:"progress_percentage"`
	CurrentModuleID    *uuid.UUID `json:"current_module_id,omitempty"`
	UnlockedModuleIDs  []string   `json:"unlocked_module_ids,omitempty"`
}

type ProgressionService interface {
	StartLearningPath(ctx context.Context, userID, pathID uuid.UUID) (*domain.LearningPathProgress, error)
	SubmitAssessment(ctx context.Context, input SubmitAssessmentInput) (*SubmissionResult, error)
	MarkModuleComplete(ctx context.Context, userID, pathID, moduleID uuid.UUID) (*SubmissionResult, error)
	GetProgress(ctx context.Context, userID, pathID uuid.UUID) (*domain.LearningPathProgress, error)
}

type progressionService struct {
	db           *gorm.DB
	log          *logger.Logger
	users        repos.UserRepo
	modules      repos.ModuleRepo
	paths        repos.LearningPathRepo
	assessments  repos.AssessmentRepo
	results      repos.AssessmentResultRepo
	interactions repos.InteractionRepo
	progress     repos.ProgressRepo
}

func NewProgressionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	modules repos.ModuleRepo,
	paths repos.LearningPathRepo,
	assessments repos.AssessmentRepo,
	results repos.AssessmentResultRepo,
	interactions repos.InteractionRepo,
	progress repos.ProgressRepo,
) ProgressionService {
	return &progressionService{
		db:           db,
		log:          baseLog.With("service", "ProgressionService"),
		users:        users,
		modules:      modules,
		paths:        paths,
		assessments:  assessments,
		results:      results,
		interactions: interactions,
		progress:     progress,
	}
}

// StartLearningPath enrolls the user: the first module in declared order
// opens, every other module starts locked.
func (s *progressionService) StartLearningPath(ctx context.Context, userID, pathID uuid.UUID) (*domain.LearningPathProgress, error) {
	if userID == uuid.Nil || pathID == uuid.Nil {
		return nil, fmt.Errorf("missing user or learning path id: %w", pkgerrors.ErrValidation)
	}

	users, err := s.users.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, pkgerrors.ErrNotFound)
	}
	paths, err := s.paths.GetByIDs(ctx, nil, []uuid.UUID{pathID})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("learning path %s: %w", pathID, pkgerrors.ErrNotFound)
	}

	links, err := s.paths.ListModules(ctx, nil, pathID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("learning path %s has no modules: %w", pathID, pkgerrors.ErrValidation)
	}

	var created *domain.LearningPathProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.progress.GetPathProgress(ctx, tx, userID, pathID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("learning path %s already started: %w", pathID, pkgerrors.ErrConflict)
		}

		now := time.Now().UTC()
		firstModuleID := links[0].ModuleID
		lockedIDs := make([]uuid.UUID, 0, len(links)-1)
		moduleRows := make([]*domain.ModuleProgress, 0, len(links))
		for i, link := range links {
			status := domain.ModuleStatusLocked
			if i == 0 {
				status = domain.ModuleStatusInProgress
			} else {
				lockedIDs = append(lockedIDs, link.ModuleID)
			}
			moduleRows = append(moduleRows, &domain.ModuleProgress{
				UserID:           userID,
				LearningPathID:   pathID,
				ModuleID:         link.ModuleID,
				Status:           status,
				AssessmentStatus: domain.AssessmentStatusNotStarted,
			})
		}
		if _, err := s.progress.CreateModuleProgress(ctx, tx, moduleRows); err != nil {
			return err
		}

		row := &domain.LearningPathProgress{
			UserID:             userID,
			LearningPathID:     pathID,
			CurrentModuleID:    &firstModuleID,
			CompletedModuleIDs: domain.MustJSON([]string{}),
			LockedModuleIDs:    domain.MustJSON(domain.UUIDStrings(lockedIDs)),
			ProgressPercentage: 0,
			Status:             domain.PathStatusInProgress,
			StartedAt:          now,
		}
		created, err = s.progress.CreatePathProgress(ctx, tx, row)
		if err != nil {
			return err
		}

		pid := pathID
		_, err = s.interactions.Create(ctx, tx, []*domain.Interaction{{
			UserID:         userID,
			LearningPathID: &pid,
			Type:           domain.InteractionStart,
			OccurredAt:     now,
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("learning path started", "userID", userID, "pathID", pathID, "modules", len(links))
	return created, nil
}

// SubmitAssessment grades the answers against the stored solution and, on a
// pass, completes the module and recomputes the path state in one
// transaction. The path progress row is locked for the duration so
// concurrent submissions serialize.
func (s *progressionService) SubmitAssessment(ctx context.Context, input SubmitAssessmentInput) (*SubmissionResult, error) {
	if input.UserID == uuid.Nil || input.ModuleID == uuid.Nil || input.AssessmentID == uuid.Nil {
		return nil, fmt.Errorf("missing user, module or assessment id: %w", pkgerrors.ErrValidation)
	}
	if len(input.Answers) == 0 {
		return nil, fmt.Errorf("missing answers: %w", pkgerrors.ErrValidation)
	}

	assessments, err := s.assessments.GetByIDs(ctx, nil, []uuid.UUID{input.AssessmentID})
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return nil, fmt.Errorf("assessment %s: %w", input.AssessmentID, pkgerrors.ErrNotFound)
	}
	assessment := assessments[0]
	if assessment.ModuleID != input.ModuleID {
		return nil, fmt.Errorf("assessment %s does not belong to module %s: %w",
			input.AssessmentID, input.ModuleID, pkgerrors.ErrValidation)
	}

	score, passed, err := grade(assessment, input.Answers)
	if err != nil {
		return nil, err
	}

	pathID, links, err := s.activePathForModule(ctx, input.UserID, input.ModuleID)
	if err != nil {
		return nil, err
	}

	var result *SubmissionResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lpp, err := s.progress.GetPathProgressForUpdate(ctx, tx, input.UserID, pathID)
		if err != nil {
			return err
		}
		if lpp == nil {
			return fmt.Errorf("no progress for learning path %s: %w", pathID, pkgerrors.ErrNotFound)
		}

		attempts, err := s.results.CountAttempts(ctx, tx, input.UserID, input.AssessmentID, input.ModuleID)
		if err != nil {
			return err
		}
		attempt := int(attempts) + 1
		now := time.Now().UTC()
		if _, err := s.results.Create(ctx, tx, []*domain.AssessmentResult{{
			UserID:       input.UserID,
			AssessmentID: input.AssessmentID,
			ModuleID:     input.ModuleID,
			Score:        score,
			Passed:       passed,
			Answers:      domain.MustJSON(input.Answers),
			Attempt:      attempt,
			SubmittedAt:  now,
		}}); err != nil {
			return err
		}

		mp, err := s.progress.GetModuleProgress(ctx, tx, input.UserID, pathID, input.ModuleID)
		if err != nil {
			return err
		}
		if mp == nil {
			return fmt.Errorf("no progress for module %s: %w", input.ModuleID, pkgerrors.ErrNotFound)
		}
		if passed {
			mp.AssessmentStatus = domain.AssessmentStatusPassed
			mp.Status = domain.ModuleStatusCompleted
			mp.CompletedAt = &now
		} else {
			mp.AssessmentStatus = domain.AssessmentStatusFailed
		}
		if err := s.progress.SaveModuleProgress(ctx, tx, mp); err != nil {
			return err
		}

		state, err := s.recomputePathState(ctx, tx, input.UserID, pathID, links, lpp, now)
		if err != nil {
			return err
		}

		if passed {
			mid := input.ModuleID
			rows := []*domain.Interaction{{
				UserID:     input.UserID,
				ModuleID:   &mid,
				Type:       domain.InteractionCompleteModule,
				OccurredAt: now,
			}}
			if state.pathCompleted {
				pid := pathID
				rows = append(rows, &domain.Interaction{
					UserID:         input.UserID,
					LearningPathID: &pid,
					Type:           domain.InteractionCompletePath,
					OccurredAt:     now,
				})
			}
			if _, err := s.interactions.Create(ctx, tx, rows); err != nil {
				return err
			}
		}

		result = &SubmissionResult{
			Score:              score,
			Passed:             passed,
			Attempt:            attempt,
			ModuleStatus:       mp.Status,
			PathStatus:         lpp.Status,
			ProgressPercentage: lpp.ProgressPercentage,
			CurrentModuleID:    lpp.CurrentModuleID,
			UnlockedModuleIDs:  state.unlocked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("assessment submitted",
		"userID", input.UserID, "moduleID", input.ModuleID,
		"score", score, "passed", passed, "attempt", result.Attempt)
	return result, nil
}

// MarkModuleComplete completes a module that has no assessment attached.
func (s *progressionService) MarkModuleComplete(ctx context.Context, userID, pathID, moduleID uuid.UUID) (*SubmissionResult, error) {
	if userID == uuid.Nil || pathID == uuid.Nil || moduleID == uuid.Nil {
		return nil, fmt.Errorf("missing user, path or module id: %w", pkgerrors.ErrValidation)
	}

	gated, err := s.assessments.GetByModuleIDs(ctx, nil, []uuid.UUID{moduleID})
	if err != nil {
		return nil, err
	}
	if len(gated) > 0 {
		return nil, fmt.Errorf("module %s is assessment gated: %w", moduleID, pkgerrors.ErrValidation)
	}

	links, err := s.paths.ListModules(ctx, nil, pathID)
	if err != nil {
		return nil, err
	}
	if !containsModule(links, moduleID) {
		return nil, fmt.Errorf("module %s is not part of learning path %s: %w", moduleID, pathID, pkgerrors.ErrNotFound)
	}

	var result *SubmissionResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lpp, err := s.progress.GetPathProgressForUpdate(ctx, tx, userID, pathID)
		if err != nil {
			return err
		}
		if lpp == nil {
			return fmt.Errorf("learning path %s not started: %w", pathID, pkgerrors.ErrNotFound)
		}

		mp, err := s.progress.GetModuleProgress(ctx, tx, userID, pathID, moduleID)
		if err != nil {
			return err
		}
		if mp == nil {
			return fmt.Errorf("no progress for module %s: %w", moduleID, pkgerrors.ErrNotFound)
		}
		if mp.Status == domain.ModuleStatusLocked {
			return fmt.Errorf("module %s is locked: %w", moduleID, pkgerrors.ErrConflict)
		}

		now := time.Now().UTC()
		alreadyCompleted := mp.Status == domain.ModuleStatusCompleted
		if !alreadyCompleted {
			mp.Status = domain.ModuleStatusCompleted
			mp.CompletedAt = &now
			if err := s.progress.SaveModuleProgress(ctx, tx, mp); err != nil {
				return err
			}
		}

		state, err := s.recomputePathState(ctx, tx, userID, pathID, links, lpp, now)
		if err != nil {
			return err
		}

		if !alreadyCompleted {
			mid := moduleID
			rows := []*domain.Interaction{{
				UserID:     userID,
				ModuleID:   &mid,
				Type:       domain.InteractionCompleteModule,
				OccurredAt: now,
			}}
			if state.pathCompleted {
				pid := pathID
				rows = append(rows, &domain.Interaction{
					UserID:         userID,
					LearningPathID: &pid,
					Type:           domain.InteractionCompletePath,
					OccurredAt:     now,
				})
			}
			if _, err := s.interactions.Create(ctx, tx, rows); err != nil {
				return err
			}
		}

		result = &SubmissionResult{
			Passed:             true,
			ModuleStatus:       mp.Status,
			PathStatus:         lpp.Status,
			ProgressPercentage: lpp.ProgressPercentage,
			CurrentModuleID:    lpp.CurrentModuleID,
			UnlockedModuleIDs:  state.unlocked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetProgress returns the stored progress, or a synthetic not_started shape
// when the user never enrolled.
func (s *progressionService) GetProgress(ctx context.Context, userID, pathID uuid.UUID) (*domain.LearningPathProgress, error) {
	if userID == uuid.Nil || pathID == uuid.Nil {
		return nil, fmt.Errorf("missing user or learning path id: %w", pkgerrors.ErrValidation)
	}
	paths, err := s.paths.GetByIDs(ctx, nil, []uuid.UUID{pathID})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("learning path %s: %w", pathID, pkgerrors.ErrNotFound)
	}

	row, err := s.progress.GetPathProgress(ctx, nil, userID, pathID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &domain.LearningPathProgress{
			UserID:             userID,
			LearningPathID:     pathID,
			CompletedModuleIDs: domain.MustJSON([]string{}),
			LockedModuleIDs:    domain.MustJSON([]string{}),
			ProgressPercentage: 0,
			Status:             domain.PathStatusNotStarted,
		}, nil
	}
	return row, nil
}

type pathState struct {
	unlocked      []string
	pathCompleted bool
}

// recomputePathState rederives the module partition from declared path
// order: a module is unlocked when it is first or its predecessor is
// completed. Rows only move locked -> in_progress, never back. The path
// progress row is mutated and saved; path completion is terminal.
func (s *progressionService) recomputePathState(
	ctx context.Context,
	tx *gorm.DB,
	userID, pathID uuid.UUID,
	links []*domain.LearningPathModule,
	lpp *domain.LearningPathProgress,
	now time.Time,
) (*pathState, error) {
	rows, err := s.progress.ListModuleProgress(ctx, tx, userID, pathID)
	if err != nil {
		return nil, err
	}
	byModule := make(map[uuid.UUID]*domain.ModuleProgress, len(rows))
	for _, row := range rows {
		byModule[row.ModuleID] = row
	}

	state := &pathState{}
	var completed, locked []uuid.UUID
	var currentID *uuid.UUID
	priorCompleted := true
	for i, link := range links {
		row := byModule[link.ModuleID]
		if row == nil {
			// Module added to the path after enrollment.
			row = &domain.ModuleProgress{
				UserID:           userID,
				LearningPathID:   pathID,
				ModuleID:         link.ModuleID,
				Status:           domain.ModuleStatusLocked,
				AssessmentStatus: domain.AssessmentStatusNotStarted,
			}
			if _, err := s.progress.CreateModuleProgress(ctx, tx, []*domain.ModuleProgress{row}); err != nil {
				return nil, err
			}
		}

		unlockedByOrder := i == 0 || priorCompleted
		switch row.Status {
		case domain.ModuleStatusCompleted:
			completed = append(completed, link.ModuleID)
		case domain.ModuleStatusLocked:
			if unlockedByOrder {
				row.Status = domain.ModuleStatusInProgress
				if err := s.progress.SaveModuleProgress(ctx, tx, row); err != nil {
					return nil, err
				}
				state.unlocked = append(state.unlocked, link.ModuleID.String())
			} else {
				locked = append(locked, link.ModuleID)
			}
		}
		if row.Status == domain.ModuleStatusInProgress && currentID == nil {
			mid := link.ModuleID
			currentID = &mid
		}
		priorCompleted = row.Status == domain.ModuleStatusCompleted
	}

	total := len(links)
	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(len(completed)) / float64(total)))
	}

	lpp.CompletedModuleIDs = domain.MustJSON(domain.UUIDStrings(completed))
	lpp.LockedModuleIDs = domain.MustJSON(domain.UUIDStrings(locked))
	lpp.ProgressPercentage = pct
	lpp.CurrentModuleID = currentID
	if len(completed) == total && total > 0 {
		state.pathCompleted = lpp.Status != domain.PathStatusCompleted
		lpp.Status = domain.PathStatusCompleted
		if lpp.CompletedAt == nil {
			lpp.CompletedAt = &now
		}
	}
	if err := s.progress.SavePathProgress(ctx, tx, lpp); err != nil {
		return nil, err
	}
	return state, nil
}

// activePathForModule resolves which of the user's in-progress paths
// contains the module, returning its ordered module links.
func (s *progressionService) activePathForModule(ctx context.Context, userID, moduleID uuid.UUID) (uuid.UUID, []*domain.LearningPathModule, error) {
	progressRows, err := s.progress.ListPathProgressByUser(ctx, nil, userID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	for _, pr := range progressRows {
		if pr.Status == domain.PathStatusCompleted {
			continue
		}
		links, err := s.paths.ListModules(ctx, nil, pr.LearningPathID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		if containsModule(links, moduleID) {
			return pr.LearningPathID, links, nil
		}
	}
	return uuid.Nil, nil, fmt.Errorf("no active learning path contains module %s: %w", moduleID, pkgerrors.ErrNotFound)
}

func containsModule(links []*domain.LearningPathModule, moduleID uuid.UUID) bool {
	for _, link := range links {
		if link.ModuleID == moduleID {
			return true
		}
	}
	return false
}

// grade scores answers against the stored solution map. Comparison is
// case-insensitive on trimmed values; unanswered questions count wrong.
func grade(a *domain.Assessment, answers map[string]string) (float64, bool, error) {
	var solution map[string]string
	if err := json.Unmarshal(a.Solution, &solution); err != nil {
		return 0, false, fmt.Errorf("assessment %s has malformed solution: %w", a.ID, pkgerrors.ErrInternal)
	}
	if len(solution) == 0 {
		return 0, false, fmt.Errorf("assessment %s has no solution: %w", a.ID, pkgerrors.ErrInternal)
	}

	correct := 0
	for questionID, expected := range solution {
		got, ok := answers[questionID]
		if ok && strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(expected)) {
			correct++
		}
	}
	score := math.Round(100*float64(correct)/float64(len(solution))*100) / 100
	return score, score >= float64(a.PassPercentage), nil
}
