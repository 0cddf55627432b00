package recruitment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "gestion de proyectos", Normalize("Gestión de Proyectos"))
	assert.Equal(t, "cc sql", Normalize("C+C, SQL!"))
	assert.Equal(t, "resume", Normalize("Résumé"))
}

func TestMatchRequiredAllFound(t *testing.T) {
	text := "Amplia experiencia en Python y gestión de proyectos SQL"
	res := MatchRequired(text, []string{"python", "sql"})
	require.True(t, res.Suitable)
	assert.ElementsMatch(t, []string{"python", "sql"}, res.Found)
	assert.Empty(t, res.NotFound)
}

func TestMatchRequiredMissingWordFailsFast(t *testing.T) {
	res := MatchRequired("solo experiencia en python", []string{"kubernetes", "python"})
	assert.False(t, res.Suitable)
	assert.Equal(t, []string{"kubernetes"}, res.NotFound)
}

func TestMatchRequiredSimilarSpelling(t *testing.T) {
	// "postgresql" vs "postgres" clears the similarity threshold.
	res := MatchRequired("experiencia con postgresql en produccion", []string{"postgres"})
	assert.True(t, res.Suitable)
}

func TestMatchDesirableShare(t *testing.T) {
	text := "docker linux git"

	// 2 of 3 found: above the 50% floor.
	res := MatchDesirable(text, []string{"docker", "linux", "cobol"})
	assert.True(t, res.Suitable)
	assert.Len(t, res.Found, 2)

	// 1 of 3 found: below the floor.
	res = MatchDesirable(text, []string{"docker", "cobol", "fortran"})
	assert.False(t, res.Suitable)
}

func TestMatchDesirableExactlyHalfFails(t *testing.T) {
	// The share must exceed 50%, not merely reach it.
	res := MatchDesirable("docker git", []string{"docker", "cobol"})
	assert.False(t, res.Suitable)
}

func TestMatchDesirableEmptyListPasses(t *testing.T) {
	res := MatchDesirable("anything", nil)
	assert.True(t, res.Suitable)
}

func TestEvaluateCombines(t *testing.T) {
	text := "python sql docker"

	match, suitable := Evaluate(text, []string{"python"}, []string{"docker", "sql"})
	assert.True(t, suitable)
	assert.Empty(t, match.RequiredNotFound)

	_, suitable = Evaluate(text, []string{"java"}, []string{"docker"})
	assert.False(t, suitable)
}
