package services

import (
	"context"
	"testing"

	"envelopes/internal/expand"
	"envelopes/internal/models"
	"envelopes/internal/repository"
	"envelopes/internal/store"
	"envelopes/internal/testutil"
)

const testBase = "http://localhost:8080"

type testDeps struct {
	client    store.Client
	users     *repository.Repo[models.User]
	envelopes *repository.Repo[models.Envelope]
	expenses  *repository.Repo[models.Expense]
	expander  *expand.Expander
}

func setupDeps(t *testing.T) testDeps {
	t.Helper()
	client := testutil.SetupTestStore(t)
	users := repository.NewUsers(client)
	envelopes := repository.NewEnvelopes(client)
	expenses := repository.NewExpenses(client)
	return testDeps{
		client:    client,
		users:     users,
		envelopes: envelopes,
		expenses:  expenses,
		expander:  expand.New(expenses),
	}
}

func newUserService(d testDeps) UserServicer {
	return NewUserService(d.users, d.envelopes, d.expenses, d.expander)
}

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d := setupDeps(t)
		svc := newUserService(d)

		id, err := svc.CreateUser(context.Background(), "ada@example.com", "hunter2hunter2", "Ada", "Lovelace")
		testutil.AssertNoError(t, err)
		if id == 0 {
			t.Fatal("expected non-zero id")
		}

		user, err := d.users.GetByID(context.Background(), id)
		testutil.AssertNoError(t, err)
		if user.Email != "ada@example.com" {
			t.Errorf("expected stored email, got %q", user.Email)
		}
		if user.PasswordHash == "hunter2hunter2" || user.PasswordHash == "" {
			t.Error("expected password to be stored hashed")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		d := setupDeps(t)
		svc := newUserService(d)

		_, err := svc.CreateUser(context.Background(), "dup@example.com", "hunter2hunter2", "A", "B")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser(context.Background(), "dup@example.com", "hunter2hunter2", "C", "D")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestAttemptLogin(t *testing.T) {
	d := setupDeps(t)
	svc := newUserService(d)
	user := testutil.CreateTestUser(t, d.client)

	t.Run("valid", func(t *testing.T) {
		got, err := svc.AttemptLogin(context.Background(), user.Email, "password123")
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %d, got %d", user.ID, got.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.AttemptLogin(context.Background(), user.Email, "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		// Same error as a wrong password; the response must not reveal which.
		_, err := svc.AttemptLogin(context.Background(), "nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestListUsers(t *testing.T) {
	d := setupDeps(t)
	svc := newUserService(d)

	const total = 7
	for i := 0; i < total; i++ {
		testutil.CreateTestUser(t, d.client)
	}

	col, err := svc.ListUsers(context.Background(), testBase, "")
	testutil.AssertNoError(t, err)

	if len(col.Items) != 5 {
		t.Errorf("expected a page of 5, got %d", len(col.Items))
	}
	if col.Count != total {
		t.Errorf("expected count %d, got %d", total, col.Count)
	}
	if col.Next == "" {
		t.Fatal("expected next link on first page")
	}
	if col.Items[0].Self == "" {
		t.Error("expected self links on listed users")
	}
}

func TestUpdateUser(t *testing.T) {
	t.Run("not_self", func(t *testing.T) {
		d := setupDeps(t)
		svc := newUserService(d)
		a := testutil.CreateTestUser(t, d.client)
		b := testutil.CreateTestUser(t, d.client)

		err := svc.UpdateUser(context.Background(), a.ID, b.ID, UserPatch{First: "Hacked"})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("partial_patch", func(t *testing.T) {
		d := setupDeps(t)
		svc := newUserService(d)
		user := testutil.CreateTestUser(t, d.client)

		err := svc.UpdateUser(context.Background(), user.ID, user.ID, UserPatch{First: "Grace"})
		testutil.AssertNoError(t, err)

		got, err := d.users.GetByID(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if got.First != "Grace" {
			t.Errorf("expected first Grace, got %q", got.First)
		}
		if got.Last != user.Last || got.Email != user.Email {
			t.Errorf("expected untouched fields to survive, got %+v", got)
		}
	})

	t.Run("email_taken", func(t *testing.T) {
		d := setupDeps(t)
		svc := newUserService(d)
		user := testutil.CreateTestUser(t, d.client)
		other := testutil.CreateTestUser(t, d.client)

		err := svc.UpdateUser(context.Background(), user.ID, user.ID, UserPatch{Email: other.Email})
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("password_change", func(t *testing.T) {
		d := setupDeps(t)
		svc := newUserService(d)
		user := testutil.CreateTestUser(t, d.client)

		err := svc.UpdateUser(context.Background(), user.ID, user.ID, UserPatch{Password: "newpassword1"})
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin(context.Background(), user.Email, "newpassword1")
		testutil.AssertNoError(t, err)
		_, err = svc.AttemptLogin(context.Background(), user.Email, "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestDeleteUserCascades(t *testing.T) {
	d := setupDeps(t)
	svc := newUserService(d)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, d.client)
	env := testutil.CreateTestEnvelope(t, d.client, user.ID, 100)
	exp := testutil.CreateTestExpense(t, d.client, user.ID, 5)

	// Another user's property must survive the cascade.
	other := testutil.CreateTestUser(t, d.client)
	otherEnv := testutil.CreateTestEnvelope(t, d.client, other.ID, 50)

	testutil.AssertNoError(t, svc.DeleteUser(ctx, user.ID, user.ID))

	_, err := d.users.GetByID(ctx, user.ID)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	_, err = d.envelopes.GetByID(ctx, env.ID)
	testutil.AssertAppError(t, err, "ENVELOPE_NOT_FOUND")
	_, err = d.expenses.GetByID(ctx, exp.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")

	_, err = d.envelopes.GetByID(ctx, otherEnv.ID)
	testutil.AssertNoError(t, err)
}

func TestDeleteUserNotSelf(t *testing.T) {
	d := setupDeps(t)
	svc := newUserService(d)
	a := testutil.CreateTestUser(t, d.client)
	b := testutil.CreateTestUser(t, d.client)

	err := svc.DeleteUser(context.Background(), a.ID, b.ID)
	testutil.AssertAppError(t, err, "FORBIDDEN")
}

func TestListUserEnvelopes(t *testing.T) {
	d := setupDeps(t)
	svc := newUserService(d)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, d.client)
	testutil.CreateTestEnvelope(t, d.client, user.ID, 100)
	testutil.CreateTestEnvelope(t, d.client, user.ID, 200)

	other := testutil.CreateTestUser(t, d.client)
	testutil.CreateTestEnvelope(t, d.client, other.ID, 300)

	col, err := svc.ListUserEnvelopes(ctx, testBase, user.ID)
	testutil.AssertNoError(t, err)

	if len(col.Items) != 2 || col.Count != 2 {
		t.Fatalf("expected 2 owned envelopes, got %d (count %d)", len(col.Items), col.Count)
	}
	if col.Next != "" {
		t.Errorf("expected no pagination on ownership listing, got %q", col.Next)
	}
	for _, v := range col.Items {
		if v.Owner.ID != user.ID {
			t.Errorf("unexpected owner %d", v.Owner.ID)
		}
	}
}
