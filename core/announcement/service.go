package announcement

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("announcement not found")
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		GetAnnouncementByID(ctx context.Context, id string) (Announcement, error)
		QueryAllAnnouncements(ctx context.Context) ([]Announcement, error)
		// QueryAnnouncementsForRole returns active announcements targeting the
		// role or "all", newest first.
		QueryAnnouncementsForRole(ctx context.Context, role user.Role) ([]Announcement, error)
		UpdateAnnouncement(ctx context.Context, ann Announcement, isActive *bool) (Announcement, error)
		DeleteAnnouncementsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, na NewAnnouncement) (Announcement, error)
		GetByID(ctx context.Context, id string) (Announcement, error)
		QueryAll(ctx context.Context) ([]Announcement, error)
		QueryForRole(ctx context.Context, role user.Role) ([]Announcement, error)
		Deactivate(ctx context.Context, id string) (Announcement, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		conf    *core.Config
		repo    Repository
		usrRepo user.Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, repo Repository, usrRepo user.Repository, mailSvc core.EmailService) Service {
	return &service{
		conf:    conf,
		repo:    repo,
		usrRepo: usrRepo,
		mailSvc: mailSvc,
	}
}

func (svc *service) Create(ctx context.Context, na NewAnnouncement) (Announcement, error) {
	now := time.Now().UTC()
	ann := Announcement{
		Title:     na.Title,
		Content:   na.Content,
		CreatedBy: na.CreatedBy,
		Audience:  na.Audience,
		Priority:  na.Priority,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ann.Priority == "" {
		ann.Priority = PriorityNormal
	}
	ann, err := svc.repo.CreateAnnouncement(ctx, ann)
	if err != nil {
		return Announcement{}, err
	}
	svc.notifyAudience(ctx, ann)
	return ann, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Announcement, error) {
	return svc.repo.GetAnnouncementByID(ctx, id)
}

func (svc *service) QueryAll(ctx context.Context) ([]Announcement, error) {
	return svc.repo.QueryAllAnnouncements(ctx)
}

func (svc *service) QueryForRole(ctx context.Context, role user.Role) ([]Announcement, error) {
	return svc.repo.QueryAnnouncementsForRole(ctx, role)
}

func (svc *service) Deactivate(ctx context.Context, id string) (Announcement, error) {
	inactive := false
	ann := Announcement{ID: id, UpdatedAt: time.Now().UTC()}
	return svc.repo.UpdateAnnouncement(ctx, ann, &inactive)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteAnnouncementsByID(ctx, ids...)
}

func (svc *service) notifyAudience(ctx context.Context, ann Announcement) {
	if svc.mailSvc == nil {
		return
	}
	filter := user.QueryFilter{}
	if ann.Audience != AudienceAll {
		filter.Role = user.Role(ann.Audience)
	}
	users, err := svc.usrRepo.FilterUsers(ctx, filter)
	if err != nil {
		return // notification failures never fail the write
	}
	bcc := make([]mail.Address, 0, len(users))
	for _, usr := range users {
		if usr.IsActive {
			bcc = append(bcc, mail.Address{Name: usr.FullName, Address: usr.Email})
		}
	}
	if len(bcc) == 0 {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{svc.conf.DefaultFromEmail},
		Bcc:     bcc,
		Subject: "Announcement: " + ann.Title,
		BodyStr: ann.Content,
	})
}
