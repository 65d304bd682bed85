package service

import (
	"context"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/repository"
)

const (
	opCreate          = "create_project"
	opReplace         = "replace_project"
	opEdit            = "edit_project"
	opDelete          = "delete_project"
	opSeed            = "seed_project"
	opAddFeature      = "add_feature"
	opUpdateFeature   = "update_feature"
	opRemoveFeature   = "remove_feature"
	opAddTask         = "add_task"
	opUpdateTask      = "update_task"
	opRemoveTask      = "remove_task"
	opAddPhase        = "add_phase"
	opUpdatePhase     = "update_phase"
	opRemovePhase     = "remove_phase"
	opAddPhaseTask    = "add_phase_task"
	opUpdatePhaseTask = "update_phase_task"
	opRemovePhaseTask = "remove_phase_task"
	opAddTech         = "add_tech"
	opUpdateTech      = "update_tech"
	opRemoveTech      = "remove_tech"
	opSelect          = "select_project"
)

// SetEditMode sets the edit-mode flag, or toggles it when enabled is nil.
func (c *Controller) SetEditMode(ctx context.Context, enabled *bool) (View, error) {
	return c.do(ctx, func(reply chan<- result) {
		if enabled == nil {
			c.editMode = !c.editMode
		} else {
			c.editMode = *enabled
		}
		c.dirty = true
		c.respond(reply, nil)
	})
}

func (c *Controller) DismissError(ctx context.Context) (View, error) {
	return c.do(ctx, func(reply chan<- result) {
		if c.errSlot != nil {
			c.errSlot = nil
			c.dirty = true
		}
		c.respond(reply, nil)
	})
}

// Select makes id the active project.
func (c *Controller) Select(ctx context.Context, id string) (View, error) {
	return c.do(ctx, func(reply chan<- result) {
		if _, ok := domain.Find(c.projects, id); !ok {
			c.reject(opSelect, domain.ErrNotFound, reply)
			return
		}
		c.activeID = id
		c.pendingSelect = ""
		c.dirty = true
		c.respond(reply, nil)
	})
}

// CreateProject stores a new draft with patch applied. Once the new id shows
// up in a snapshot it becomes active and edit mode is switched on.
func (c *Controller) CreateProject(ctx context.Context, patch domain.ProjectPatch) (View, error) {
	draft := domain.EditProject(domain.NewProjectDraft(), patch)
	return c.serial(ctx, func(reply chan<- result) {
		c.dispatch(write{
			op: opCreate,
			do: func(ctx context.Context, s repository.Store) (repository.Ack, error) {
				return s.Create(ctx, draft)
			},
			onAck: func(ack repository.Ack) {
				c.editMode = true
				c.dirty = true
				if _, ok := domain.Find(c.projects, ack.ID); ok {
					c.activeID = ack.ID
					return
				}
				c.pendingSelect = ack.ID
			},
			settled: func(ack repository.Ack) bool {
				_, ok := domain.Find(c.projects, ack.ID)
				return ok
			},
		}, reply)
	})
}

// ReplaceProject overwrites the stored document for id with p.
func (c *Controller) ReplaceProject(ctx context.Context, id string, p domain.Project) (View, error) {
	return c.serial(ctx, func(reply chan<- result) {
		if _, ok := domain.Find(c.projects, id); !ok {
			c.reject(opReplace, domain.ErrNotFound, reply)
			return
		}
		c.replace(opReplace, id, p, reply)
	})
}

// EditProject patches the top-level fields of any existing project.
func (c *Controller) EditProject(ctx context.Context, id string, patch domain.ProjectPatch) (View, error) {
	return c.edit(ctx, id, opEdit, false, func(p domain.Project) (domain.Project, error) {
		return domain.EditProject(p, patch), nil
	})
}

// DeleteProject removes id. Deleting the only project is rejected without
// touching the store.
func (c *Controller) DeleteProject(ctx context.Context, id string) (View, error) {
	return c.serial(ctx, func(reply chan<- result) {
		if _, ok := domain.Find(c.projects, id); !ok {
			c.reject(opDelete, domain.ErrNotFound, reply)
			return
		}
		if len(c.projects) <= 1 {
			c.reject(opDelete, domain.ErrLastProject, reply)
			return
		}
		c.dispatch(write{
			op: opDelete,
			do: func(ctx context.Context, s repository.Store) (repository.Ack, error) {
				return s.Remove(ctx, id)
			},
			settled: func(repository.Ack) bool {
				_, ok := domain.Find(c.projects, id)
				return !ok
			},
		}, reply)
	})
}

// Features

func (c *Controller) AddFeature(ctx context.Context, projectID string, patch domain.FeaturePatch) (View, error) {
	return c.edit(ctx, projectID, opAddFeature, true, func(p domain.Project) (domain.Project, error) {
		f := domain.NewFeature(c.ids.Next(domain.FeatureIDs(p)...))
		return domain.UpdateFeature(domain.AddFeature(p, f), f.ID, patch)
	})
}

func (c *Controller) UpdateFeature(ctx context.Context, projectID string, id int64, patch domain.FeaturePatch) (View, error) {
	return c.edit(ctx, projectID, opUpdateFeature, true, func(p domain.Project) (domain.Project, error) {
		return domain.UpdateFeature(p, id, patch)
	})
}

func (c *Controller) RemoveFeature(ctx context.Context, projectID string, id int64) (View, error) {
	return c.edit(ctx, projectID, opRemoveFeature, true, func(p domain.Project) (domain.Project, error) {
		return domain.RemoveFeature(p, id)
	})
}

// UI/UX tasks

func (c *Controller) AddTask(ctx context.Context, projectID string, patch domain.TaskPatch) (View, error) {
	return c.edit(ctx, projectID, opAddTask, true, func(p domain.Project) (domain.Project, error) {
		t := domain.NewTask(c.ids.Next(domain.TaskIDs(p)...))
		return domain.UpdateTask(domain.AddTask(p, t), t.ID, patch)
	})
}

func (c *Controller) UpdateTask(ctx context.Context, projectID string, id int64, patch domain.TaskPatch) (View, error) {
	return c.edit(ctx, projectID, opUpdateTask, true, func(p domain.Project) (domain.Project, error) {
		return domain.UpdateTask(p, id, patch)
	})
}

func (c *Controller) RemoveTask(ctx context.Context, projectID string, id int64) (View, error) {
	return c.edit(ctx, projectID, opRemoveTask, true, func(p domain.Project) (domain.Project, error) {
		return domain.RemoveTask(p, id)
	})
}

// Phases

func (c *Controller) AddPhase(ctx context.Context, projectID string, patch domain.PhasePatch) (View, error) {
	return c.edit(ctx, projectID, opAddPhase, true, func(p domain.Project) (domain.Project, error) {
		ph := domain.NewPhase(c.ids.Next(domain.PhaseIDs(p)...))
		return domain.UpdatePhase(domain.AddPhase(p, ph), ph.ID, patch)
	})
}

func (c *Controller) UpdatePhase(ctx context.Context, projectID string, id int64, patch domain.PhasePatch) (View, error) {
	return c.edit(ctx, projectID, opUpdatePhase, true, func(p domain.Project) (domain.Project, error) {
		return domain.UpdatePhase(p, id, patch)
	})
}

func (c *Controller) RemovePhase(ctx context.Context, projectID string, id int64) (View, error) {
	return c.edit(ctx, projectID, opRemovePhase, true, func(p domain.Project) (domain.Project, error) {
		return domain.RemovePhase(p, id)
	})
}

// AddPhaseTask appends text, or the placeholder task when text is empty.
func (c *Controller) AddPhaseTask(ctx context.Context, projectID string, phaseID int64, text string) (View, error) {
	if text == "" {
		text = domain.NewPhaseTask
	}
	return c.edit(ctx, projectID, opAddPhaseTask, true, func(p domain.Project) (domain.Project, error) {
		return domain.AddPhaseTask(p, phaseID, text)
	})
}

func (c *Controller) UpdatePhaseTask(ctx context.Context, projectID string, phaseID int64, index int, text string) (View, error) {
	return c.edit(ctx, projectID, opUpdatePhaseTask, true, func(p domain.Project) (domain.Project, error) {
		return domain.UpdatePhaseTask(p, phaseID, index, text)
	})
}

func (c *Controller) RemovePhaseTask(ctx context.Context, projectID string, phaseID int64, index int) (View, error) {
	return c.edit(ctx, projectID, opRemovePhaseTask, true, func(p domain.Project) (domain.Project, error) {
		return domain.RemovePhaseTask(p, phaseID, index)
	})
}

// Tech stack

func (c *Controller) AddTechItem(ctx context.Context, projectID string, patch domain.TechPatch) (View, error) {
	return c.edit(ctx, projectID, opAddTech, true, func(p domain.Project) (domain.Project, error) {
		t := domain.NewTechItem(c.ids.Next(domain.TechIDs(p)...))
		return domain.UpdateTechItem(domain.AddTechItem(p, t), t.ID, patch)
	})
}

func (c *Controller) UpdateTechItem(ctx context.Context, projectID string, id int64, patch domain.TechPatch) (View, error) {
	return c.edit(ctx, projectID, opUpdateTech, true, func(p domain.Project) (domain.Project, error) {
		return domain.UpdateTechItem(p, id, patch)
	})
}

func (c *Controller) RemoveTechItem(ctx context.Context, projectID string, id int64) (View, error) {
	return c.edit(ctx, projectID, opRemoveTech, true, func(p domain.Project) (domain.Project, error) {
		return domain.RemoveTechItem(p, id)
	})
}

// edit derives a new document from the current snapshot of id and stores it
// with a full replace. Item intents pass activeOnly.
func (c *Controller) edit(ctx context.Context, id, op string, activeOnly bool, fn func(domain.Project) (domain.Project, error)) (View, error) {
	return c.serial(ctx, func(reply chan<- result) {
		if activeOnly {
			if c.activeID == "" {
				c.reject(op, domain.ErrNoActiveProject, reply)
				return
			}
			if id != c.activeID {
				c.reject(op, domain.ErrNotActiveProject, reply)
				return
			}
		}
		current, ok := domain.Find(c.projects, id)
		if !ok {
			c.reject(op, domain.ErrNotFound, reply)
			return
		}
		next, err := fn(current)
		if err != nil {
			c.reject(op, err, reply)
			return
		}
		c.replace(op, id, next, reply)
	})
}

func (c *Controller) replace(op, id string, p domain.Project, reply chan<- result) {
	p.ID = id
	p = p.Normalize()
	c.dispatch(write{
		op: op,
		do: func(ctx context.Context, s repository.Store) (repository.Ack, error) {
			return s.Replace(ctx, id, p)
		},
		settled: func(repository.Ack) bool {
			stored, ok := domain.Find(c.projects, id)
			return ok && sameDocument(stored, p)
		},
	}, reply)
}

// sameDocument compares two documents the way a store round trip sees them:
// absent and empty lists are equal.
func sameDocument(a, b domain.Project) bool {
	return cmp.Equal(a.Normalize(), b.Normalize(), cmpopts.EquateEmpty())
}
