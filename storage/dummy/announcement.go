package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/announcement"
	"github.com/trezcool/shule/core/user"
)

type announcementRepository struct {
	db *announcementTable
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{db: db.announcement}
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ann.ID = uuid.New().String()
	repo.db.table[ann.ID] = &ann
	return ann, nil
}

func (repo *announcementRepository) GetAnnouncementByID(ctx context.Context, id string) (announcement.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ann, ok := repo.db.table[id]; ok {
		return *ann, nil
	}
	return announcement.Announcement{}, announcement.ErrNotFound
}

func (repo *announcementRepository) QueryAllAnnouncements(ctx context.Context) ([]announcement.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(announcement.Announcement) bool { return true }), nil
}

func (repo *announcementRepository) QueryAnnouncementsForRole(ctx context.Context, role user.Role) ([]announcement.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(ann announcement.Announcement) bool {
		return ann.IsActive && (ann.Audience == announcement.AudienceAll || ann.Audience == string(role))
	}), nil
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, ann announcement.Announcement, isActive *bool) (announcement.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origAnn, ok := repo.db.table[ann.ID]
	if !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	if isActive != nil {
		origAnn.IsActive = *isActive
	}
	origAnn.Title = ann.Title
	origAnn.Content = ann.Content
	origAnn.Audience = ann.Audience
	origAnn.Priority = ann.Priority
	origAnn.UpdatedAt = ann.UpdatedAt

	repo.db.table[ann.ID] = origAnn
	return *origAnn, nil
}

func (repo *announcementRepository) DeleteAnnouncementsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *announcementRepository) query(match func(announcement.Announcement) bool) []announcement.Announcement {
	announcements := make([]announcement.Announcement, 0)
	for _, ann := range repo.db.table {
		if match(*ann) {
			announcements = append(announcements, *ann)
		}
	}
	sort.Slice(announcements, func(i, j int) bool {
		return announcements[i].CreatedAt.After(announcements[j].CreatedAt)
	})
	return announcements
}
