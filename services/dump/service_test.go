package dump

import (
	"testing"

	"github.com/minddumper/minddumper/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := testutils.SetupTestDB(t, &Category{}, &TriggerWord{}, &CustomWord{}, &BrainDump{}, &DumpEntry{})
	return NewService(db, nil), db
}

func seedWords(t *testing.T, db *gorm.DB) (Category, Category) {
	work := Category{Name: "Work"}
	home := Category{Name: "Home"}
	require.NoError(t, db.Create(&work).Error)
	require.NoError(t, db.Create(&home).Error)

	words := []TriggerWord{
		{Word: "deadline", Language: "en", CategoryID: work.ID},
		{Word: "meeting", Language: "en", CategoryID: work.ID},
		{Word: "garden", Language: "en", CategoryID: home.ID},
		{Word: "vergadering", Language: "nl", CategoryID: work.ID},
	}
	require.NoError(t, db.Create(&words).Error)
	return work, home
}

func TestService_ListTriggerWords(t *testing.T) {
	service, db := newTestService(t)
	work, _ := seedWords(t, db)

	t.Run("filters by language", func(t *testing.T) {
		words, err := service.ListTriggerWords("en", nil)
		require.NoError(t, err)
		assert.Len(t, words, 3)
	})

	t.Run("filters by category", func(t *testing.T) {
		words, err := service.ListTriggerWords("en", &work.ID)
		require.NoError(t, err)
		assert.Len(t, words, 2)
	})

	t.Run("defaults empty language to en", func(t *testing.T) {
		words, err := service.ListTriggerWords("", nil)
		require.NoError(t, err)
		assert.Len(t, words, 3)
	})
}

func TestService_CustomWords(t *testing.T) {
	service, _ := newTestService(t)
	const profileID = uint(1)

	t.Run("add and list", func(t *testing.T) {
		_, err := service.AddCustomWord(profileID, "sailboat", "en")
		require.NoError(t, err)

		words, err := service.ListCustomWords(profileID)
		require.NoError(t, err)
		require.Len(t, words, 1)
		assert.Equal(t, "sailboat", words[0].Word)
	})

	t.Run("rejects duplicates per profile", func(t *testing.T) {
		_, err := service.AddCustomWord(profileID, "sailboat", "en")
		assert.ErrorIs(t, err, ErrCustomWordExists)

		// Another profile may use the same word.
		_, err = service.AddCustomWord(2, "sailboat", "en")
		assert.NoError(t, err)
	})

	t.Run("rejects blank word", func(t *testing.T) {
		_, err := service.AddCustomWord(profileID, "   ", "en")
		assert.ErrorIs(t, err, ErrWordRequired)
	})

	t.Run("remove enforces ownership", func(t *testing.T) {
		w, err := service.AddCustomWord(profileID, "lighthouse", "en")
		require.NoError(t, err)

		assert.ErrorIs(t, service.RemoveCustomWord(99, w.ID), ErrWordNotFound)
		assert.NoError(t, service.RemoveCustomWord(profileID, w.ID))
	})
}

func TestService_BrainDumps(t *testing.T) {
	service, db := newTestService(t)
	work, _ := seedWords(t, db)
	const profileID = uint(1)

	t.Run("full dump lifecycle", func(t *testing.T) {
		d, err := service.StartBrainDump(profileID, "en")
		require.NoError(t, err)
		assert.False(t, d.Finished())

		var word TriggerWord
		require.NoError(t, db.Where("category_id = ?", work.ID).First(&word).Error)

		_, err = service.AppendEntry(profileID, d.ID, "finish quarterly report", &word.ID)
		require.NoError(t, err)
		_, err = service.AppendEntry(profileID, d.ID, "free floating thought", nil)
		require.NoError(t, err)

		finished, err := service.FinishBrainDump(profileID, d.ID)
		require.NoError(t, err)
		assert.True(t, finished.Finished())

		dumps, err := service.ListBrainDumps(profileID)
		require.NoError(t, err)
		require.Len(t, dumps, 1)
		assert.Len(t, dumps[0].Entries, 2)
	})

	t.Run("cannot append to a finished dump", func(t *testing.T) {
		d, err := service.StartBrainDump(profileID, "en")
		require.NoError(t, err)
		_, err = service.FinishBrainDump(profileID, d.ID)
		require.NoError(t, err)

		_, err = service.AppendEntry(profileID, d.ID, "too late", nil)
		assert.ErrorIs(t, err, ErrDumpFinished)

		_, err = service.FinishBrainDump(profileID, d.ID)
		assert.ErrorIs(t, err, ErrDumpFinished)
	})

	t.Run("ownership is enforced", func(t *testing.T) {
		d, err := service.StartBrainDump(profileID, "en")
		require.NoError(t, err)

		_, err = service.AppendEntry(42, d.ID, "not mine", nil)
		assert.ErrorIs(t, err, ErrDumpNotFound)
	})

	t.Run("blank entry text is rejected", func(t *testing.T) {
		d, err := service.StartBrainDump(profileID, "en")
		require.NoError(t, err)

		_, err = service.AppendEntry(profileID, d.ID, "  ", nil)
		assert.ErrorIs(t, err, ErrTextRequired)
	})
}
