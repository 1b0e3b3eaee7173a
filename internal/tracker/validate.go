package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", store.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func checkID(kind string, id int64) error {
	if id <= 0 {
		return invalidf("%s id must be positive, got %d", kind, id)
	}
	return nil
}

func checkTitle(kind, title string) error {
	if strings.TrimSpace(title) == "" {
		return invalidf("%s title must not be empty", kind)
	}
	return nil
}

// checkDueDate accepts an empty date or a YYYY-MM-DD calendar date.
func checkDueDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return invalidf("due date %q is not a YYYY-MM-DD date", date)
	}
	return nil
}

func checkPriority(p model.Priority) error {
	if !p.Valid() {
		return invalidf("unknown priority %q", p)
	}
	return nil
}

func checkTheme(theme model.Theme) error {
	if !theme.Valid() {
		return invalidf("unknown theme %q", theme)
	}
	return nil
}

func checkTask(task model.Task) error {
	if err := checkTitle("task", task.Title); err != nil {
		return err
	}
	if err := checkPriority(task.Priority); err != nil {
		return err
	}
	return checkDueDate(task.DueDate)
}

func checkMilestone(m model.Milestone) error {
	if err := checkTitle("milestone", m.Title); err != nil {
		return err
	}
	if m.TaskID != nil {
		if err := checkID("task", *m.TaskID); err != nil {
			return err
		}
	}
	return checkDueDate(m.DueDate)
}

func checkPatch(p model.TaskPatch) error {
	if p.Title != nil {
		if err := checkTitle("task", *p.Title); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if err := checkPriority(*p.Priority); err != nil {
			return err
		}
	}
	if p.DueDate != nil {
		if err := checkDueDate(*p.DueDate); err != nil {
			return err
		}
	}
	return nil
}
