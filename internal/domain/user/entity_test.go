//go:build unit

package user_test

import (
	"testing"

	"travelnest/internal/domain/user"
	"travelnest/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "test@example.com", actual.Email().Value())
		assert.Equal(t, user.RoleGuest, actual.Role())
		assert.Equal(t, "Test", actual.Name().First())
		assert.Equal(t, "User", actual.Name().Last())
		assert.True(t, actual.IsActive())
		assert.Nil(t, actual.LastLogin())
	})

	t.Run("メールアドレス検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "有効なメールアドレスOK",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "空のメールアドレスNG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "アットマークなしNG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalid.example.com") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "ドメインなしNG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("user@") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "前後の空白はトリムされる",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("  valid@example.com  ") },
			},
		})
	})

	t.Run("ロール検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "guestロールOK",
				mutate: func(b *builder.UserBuilder) { b.WithRole("guest") },
			},
			{
				name:   "hostロールOK",
				mutate: func(b *builder.UserBuilder) { b.WithRole("host") },
			},
			{
				name:   "adminロールOK",
				mutate: func(b *builder.UserBuilder) { b.WithRole("admin") },
			},
			{
				name:   "未知のロールNG",
				mutate: func(b *builder.UserBuilder) { b.WithRole("superuser") },
				errIs:  user.ErrInvalidRole,
			},
			{
				name:   "空のロールNG",
				mutate: func(b *builder.UserBuilder) { b.WithRole("") },
				errIs:  user.ErrInvalidRole,
			},
		})
	})

	t.Run("氏名検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "氏名ありOK",
				mutate: func(b *builder.UserBuilder) { b.WithName("Alice", "Smith") },
			},
			{
				name:   "名が空NG",
				mutate: func(b *builder.UserBuilder) { b.WithName("", "Smith") },
				errIs:  user.ErrEmptyName,
			},
			{
				name:   "姓が空NG",
				mutate: func(b *builder.UserBuilder) { b.WithName("Alice", "") },
				errIs:  user.ErrEmptyName,
			},
			{
				name:   "空白のみNG",
				mutate: func(b *builder.UserBuilder) { b.WithName("   ", "Smith") },
				errIs:  user.ErrEmptyName,
			},
		})
	})

	t.Run("UUID一意性", func(t *testing.T) {
		user1, err1 := builder.NewUserBuilder().BuildDomain()
		user2, err2 := builder.NewUserBuilder().BuildDomain()

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, user1.ID(), user2.ID())
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
