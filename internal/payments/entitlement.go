package payments

import (
	"context"
	"fmt"
	"log"

	"course-app/internal/domain/courses"
	"course-app/internal/domain/notifications"
	"course-app/internal/domain/users"
)

type GrantOutcome string

const (
	GrantGranted      GrantOutcome = "granted"
	GrantAlreadyOwned GrantOutcome = "already_owned"
)

// Applier grants course access exactly once per (user, course) and carries
// out the side effects of a successful purchase. Mailer and Publisher are
// optional capabilities: nil means not configured.
type Applier struct {
	store    Store
	mailer   Mailer
	realtime Publisher
}

func NewApplier(store Store, mailer Mailer, realtime Publisher) *Applier {
	return &Applier{store: store, mailer: mailer, realtime: realtime}
}

// Grant commits the entitlement (owned-set insert, notification record,
// purchase counter) and then notifies (email, realtime push). The commit
// gate is the insert-if-absent on the owned set; everything after it is
// keyed off whether this call actually inserted the row, so concurrent
// duplicate grants produce the side effects exactly once. Email and push
// failures are logged and swallowed, never rolled back into the caller.
func (a *Applier) Grant(ctx context.Context, user *users.User, course *courses.Course) (GrantOutcome, error) {
	owned, err := a.store.UserOwnsCourse(ctx, user.ID, course.ID)
	if err != nil {
		return "", err
	}
	if owned {
		return GrantAlreadyOwned, nil
	}

	inserted, err := a.store.AddCourseToUser(ctx, user.ID, course.ID)
	if err != nil {
		return "", err
	}
	if !inserted {
		// Lost a race against another grant; the winner did the side effects.
		return GrantAlreadyOwned, nil
	}

	n := &notifications.Notification{
		UserID:  user.ID,
		Title:   "Course purchased",
		Message: fmt.Sprintf("You now have access to %q.", course.Title),
	}
	if err := a.store.InsertNotification(ctx, n); err != nil {
		log.Printf("❌ failed to record purchase notification for user %d: %v", user.ID, err)
	}

	if err := a.store.IncrementCoursePurchased(ctx, course.ID); err != nil {
		log.Printf("❌ failed to increment purchase counter for course %d: %v", course.ID, err)
	}

	if a.mailer != nil {
		if err := a.mailer.SendPurchaseEmail(user.Email, user.Name, course.Title); err != nil {
			log.Printf("❌ purchase email to %s failed: %v", user.Email, err)
		}
	}

	if a.realtime != nil {
		payload := map[string]interface{}{
			"course_id":    course.ID,
			"course_title": course.Title,
			"user_id":      user.ID,
		}
		if err := a.realtime.PublishToUser(ctx, user.ID, "course:purchased", payload); err != nil {
			log.Printf("❌ realtime push to user %d failed: %v", user.ID, err)
		}
		if err := a.realtime.Broadcast(ctx, "dashboard:purchase", payload); err != nil {
			log.Printf("❌ realtime broadcast failed: %v", err)
		}
	}

	return GrantGranted, nil
}
