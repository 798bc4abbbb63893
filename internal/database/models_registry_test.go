package database

import (
	"testing"

	modelspkg "github.com/pe-odake/Portifolio-Web/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesInteractionModels(t *testing.T) {
	var hasLike, hasNotification, hasProjectTag bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.Like:
			hasLike = true
		case *modelspkg.Notification:
			hasNotification = true
		case *modelspkg.ProjectTag:
			hasProjectTag = true
		}
	}
	require.True(t, hasLike, "PersistentModels should include Like")
	require.True(t, hasNotification, "PersistentModels should include Notification")
	require.True(t, hasProjectTag, "PersistentModels should include ProjectTag")
}
