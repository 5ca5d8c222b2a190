package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

func newNoticeFixture(t *testing.T) (*mocks, NoticeService, *model.User, *model.User) {
	t.Helper()
	m := newMocks()
	svc := NewNoticeService(m.repository(), testLogger()).(*noticeService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	ana := seedUser(t, m, "ana", "Segredo#2026", model.RoleSecretary, true)
	rui := seedUser(t, m, "rui", "Segredo#2026", model.RoleProfessor, true)
	return m, svc, ana, rui
}

func TestNotice_GlobalAndTargetedVisibility(t *testing.T) {
	_, svc, ana, rui := newNoticeFixture(t)
	ctx := context.Background()

	global, err := svc.Create(ctx, &dto.CreateNoticeRequest{Title: "Feriado", Message: "Sem aulas na segunda", Global: true}, "admin-1")
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if global.Kind != string(model.NoticeInfo) || !global.Active {
		t.Errorf("期望默认 info 且启用，实际=%+v", global)
	}
	_, err = svc.Create(ctx, &dto.CreateNoticeRequest{
		Title: "Pautas", Message: "Entregar pautas", Kind: "urgent",
		Recipients: []string{rui.UserID, rui.UserID},
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create 定向通知失败: %v", err)
	}

	anaList, anaTotal, _ := svc.ListMine(ctx, ana.UserID, &dto.NoticeListRequest{})
	ruiList, ruiTotal, _ := svc.ListMine(ctx, rui.UserID, &dto.NoticeListRequest{})
	if anaTotal != 1 || ruiTotal != 2 {
		t.Fatalf("期望 ana 看到 1 条、rui 看到 2 条，实际=%d/%d", anaTotal, ruiTotal)
	}
	if anaList[0].Title != "Feriado" || ruiList[0].Title != "Pautas" {
		t.Errorf("期望最新的在前，实际 ana=%s rui=%s", anaList[0].Title, ruiList[0].Title)
	}
}

func TestNotice_CreateRejects(t *testing.T) {
	_, svc, _, _ := newNoticeFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &dto.CreateNoticeRequest{Title: "x", Message: "y"}, "admin-1"); !errors.Is(err, ErrNoticeRecipientsRequired) {
		t.Errorf("期望没有接收人返回 ErrNoticeRecipientsRequired，实际=%v", err)
	}
	_, err := svc.Create(ctx, &dto.CreateNoticeRequest{Title: "x", Message: "y", Recipients: []string{"ghost"}}, "admin-1")
	if !errors.Is(err, ErrNoticeRecipientNotFound) {
		t.Errorf("期望 ErrNoticeRecipientNotFound，实际=%v", err)
	}
}

func TestNotice_ReadTracking(t *testing.T) {
	_, svc, ana, rui := newNoticeFixture(t)
	ctx := context.Background()
	first, _ := svc.Create(ctx, &dto.CreateNoticeRequest{Title: "A", Message: "a", Global: true}, "admin-1")
	_, _ = svc.Create(ctx, &dto.CreateNoticeRequest{Title: "B", Message: "b", Global: true}, "admin-1")
	private, _ := svc.Create(ctx, &dto.CreateNoticeRequest{Title: "C", Message: "c", Recipients: []string{rui.UserID}}, "admin-1")

	if n, _ := svc.UnreadCount(ctx, ana.UserID); n != 2 {
		t.Errorf("期望 ana 未读 2 条，实际=%d", n)
	}

	if err := svc.MarkRead(ctx, ana.UserID, first.ID); err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}
	if err := svc.MarkRead(ctx, ana.UserID, first.ID); err != nil {
		t.Errorf("重复标记不应报错，实际=%v", err)
	}
	if err := svc.MarkRead(ctx, ana.UserID, private.ID); !errors.Is(err, ErrNoticeNotFound) {
		t.Errorf("期望他人的定向通知按不存在处理，实际=%v", err)
	}

	unread, total, _ := svc.ListMine(ctx, ana.UserID, &dto.NoticeListRequest{UnreadOnly: true})
	if total != 1 || unread[0].Title != "B" || unread[0].Read {
		t.Errorf("期望只剩 B 未读，实际=%+v", unread)
	}

	marked, _ := svc.MarkAllRead(ctx, rui.UserID)
	if marked != 3 {
		t.Errorf("期望 rui 一次标记 3 条，实际=%d", marked)
	}
	if n, _ := svc.UnreadCount(ctx, rui.UserID); n != 0 {
		t.Errorf("期望 rui 全部已读，实际未读=%d", n)
	}
}

func TestNotice_DeactivatedHidden(t *testing.T) {
	_, svc, ana, _ := newNoticeFixture(t)
	ctx := context.Background()
	n, _ := svc.Create(ctx, &dto.CreateNoticeRequest{Title: "A", Message: "a", Global: true}, "admin-1")

	if err := svc.SetActive(ctx, n.ID, false); err != nil {
		t.Fatalf("SetActive 失败: %v", err)
	}
	if _, total, _ := svc.ListMine(ctx, ana.UserID, &dto.NoticeListRequest{}); total != 0 {
		t.Errorf("期望停用的通知不可见，实际=%d", total)
	}
	all, total, _ := svc.ListAll(ctx, &dto.PaginationRequest{})
	if total != 1 || all[0].Active {
		t.Errorf("期望管理列表仍包含停用通知，实际=%+v", all)
	}
	if err := svc.SetActive(ctx, "missing", true); !errors.Is(err, ErrNoticeNotFound) {
		t.Errorf("期望 ErrNoticeNotFound，实际=%v", err)
	}
}
