package gormrepo

import (
	"context"
	"testing"
	"time"

	"coop-lending/internal/domain/member"
)

func TestMember_GetAndSavings(t *testing.T) {
	db := openTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	m := makeMember("M-001", time.Now().AddDate(-2, 0, 0))
	mustCreate(t, db, m)
	mustCreate(t, db, &member.SavingsAccount{MemberID: m.MemberID, AccountNumber: "SA-2", Balance: dec("250.50"), StartDate: time.Now().UTC().AddDate(0, -1, 0)})
	mustCreate(t, db, &member.SavingsAccount{MemberID: m.MemberID, AccountNumber: "SA-1", Balance: dec("1000"), StartDate: time.Now().UTC().AddDate(-1, 0, 0)})

	got, err := repo.GetByMemberID(ctx, m.MemberID)
	if err != nil || got.MemberNumber != "M-001" || !got.ShareValue.Equal(dec("10000")) {
		t.Fatalf("GetByMemberID: %+v, %v", got, err)
	}
	if _, err := repo.GetByMemberIDForUpdate(ctx, m.MemberID); err != nil {
		t.Fatalf("GetByMemberIDForUpdate: %v", err)
	}

	accts, err := repo.ListSavingsAccounts(ctx, m.MemberID)
	if err != nil || len(accts) != 2 {
		t.Fatalf("ListSavingsAccounts: %d, %v", len(accts), err)
	}
	if accts[0].AccountNumber != "SA-1" {
		t.Fatalf("expected oldest account first, got %s", accts[0].AccountNumber)
	}

	list, err := repo.ListByMemberIDs(ctx, []string{m.MemberID, "missing"})
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByMemberIDs: %d, %v", len(list), err)
	}
}

func TestMember_SearchEligible(t *testing.T) {
	db := openTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	applicant := makeMember("M-100", now.AddDate(-3, 0, 0))
	veteran := makeMember("M-101", now.AddDate(-3, 0, 0))
	veteran.FirstName = "Achieng"
	newcomer := makeMember("M-102", now.AddDate(0, -2, 0))
	suspended := makeMember("M-103", now.AddDate(-3, 0, 0))
	suspended.Status = member.StatusSuspended
	other := makeMember("M-204", now.AddDate(-5, 0, 0))
	for _, m := range []*member.Member{applicant, veteran, newcomer, suspended, other} {
		mustCreate(t, db, m)
	}

	base := member.EligibleFilter{ExcludeMemberID: applicant.MemberID, JoinedOnOrBefore: now.AddDate(-1, 0, 0)}

	got, err := repo.SearchEligible(ctx, base)
	if err != nil {
		t.Fatalf("SearchEligible: %v", err)
	}
	if len(got) != 2 || got[0].MemberNumber != "M-101" || got[1].MemberNumber != "M-204" {
		t.Fatalf("unexpected candidates: %+v", got)
	}

	f := base
	f.Search = "aCHIEng"
	got, _ = repo.SearchEligible(ctx, f)
	if len(got) != 1 || got[0].MemberID != veteran.MemberID {
		t.Fatalf("name search: %+v", got)
	}

	f.Search = "m-20"
	got, _ = repo.SearchEligible(ctx, f)
	if len(got) != 1 || got[0].MemberID != other.MemberID {
		t.Fatalf("member number search: %+v", got)
	}

	f = base
	f.Limit, f.Offset = 1, 1
	got, _ = repo.SearchEligible(ctx, f)
	if len(got) != 1 || got[0].MemberNumber != "M-204" {
		t.Fatalf("paging: %+v", got)
	}
}

func TestMember_SearchEligible_WildcardsMatchLiterally(t *testing.T) {
	db := openTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	joined := time.Now().UTC().AddDate(-3, 0, 0)
	alice := makeMember("M-002", joined)
	alice.FirstName, alice.LastName = "Alice", "Smith"
	oneil := makeMember("M-003", joined)
	oneil.FirstName, oneil.LastName = "Sean", "O_Neil"
	for _, m := range []*member.Member{alice, oneil} {
		mustCreate(t, db, m)
	}

	tests := []struct {
		search string
		want   []string
	}{
		{search: "_", want: []string{"M-003"}},
		{search: "o_n", want: []string{"M-003"}},
		{search: "%", want: nil},
		{search: "o%n", want: nil},
		{search: "!", want: nil},
		{search: "SMI", want: []string{"M-002"}},
	}
	for _, tt := range tests {
		got, err := repo.SearchEligible(ctx, member.EligibleFilter{Search: tt.search})
		if err != nil {
			t.Fatalf("search %q: %v", tt.search, err)
		}
		var numbers []string
		for _, m := range got {
			numbers = append(numbers, m.MemberNumber)
		}
		if len(numbers) != len(tt.want) {
			t.Fatalf("search %q = %v, want %v", tt.search, numbers, tt.want)
		}
		for i := range numbers {
			if numbers[i] != tt.want[i] {
				t.Fatalf("search %q = %v, want %v", tt.search, numbers, tt.want)
			}
		}
	}
}
