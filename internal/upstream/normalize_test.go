package upstream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeArrayWrappedOutput(t *testing.T) {
	raw := []byte(`[{"output": "Pontos fortes:\n- Boa experiência\nSugestões:\nIncluir métricas\nNota: 7/10"}]`)

	res, err := normalize(raw, false)
	require.NoError(t, err)
	assert.Equal(t, "Pontos fortes:\n- Boa experiência", res.Analysis)
	assert.Equal(t, "Incluir métricas", res.Suggestions)
	require.NotNil(t, res.Score)
	assert.Equal(t, 7, *res.Score)
	assert.Empty(t, res.Rewritten)
}

func TestNormalizeBareObjectOutput(t *testing.T) {
	raw := []byte(`{"output": "Currículo sólido no geral."}`)

	res, err := normalize(raw, false)
	require.NoError(t, err)
	assert.Equal(t, "Currículo sólido no geral.", res.Analysis)
	assert.Empty(t, res.Suggestions)
	assert.Nil(t, res.Score)
}

func TestNormalizeOutputAdjustModeFillsRewrite(t *testing.T) {
	raw := []byte(`{"output": "João Silva\njoao@x.com\n\nEXPERIÊNCIA\n- Built X"}`)

	res, err := normalize(raw, true)
	require.NoError(t, err)
	assert.Equal(t, "João Silva\njoao@x.com\n\nEXPERIÊNCIA\n- Built X", res.Rewritten)
}

func TestNormalizeRewrittenWithAnalysis(t *testing.T) {
	raw := []byte(`{"rewritten_resume": "JOÃO SILVA\n\nEXPERIÊNCIA\n- Built X", "analysis": "Bom currículo"}`)

	res, err := normalize(raw, true)
	require.NoError(t, err)
	assert.Equal(t, "JOÃO SILVA\n\nEXPERIÊNCIA\n- Built X", res.Rewritten)
	assert.Equal(t, "Bom currículo", res.Analysis)
	assert.Empty(t, res.Suggestions)
	assert.Nil(t, res.Score)
}

func TestNormalizeRewrittenOnly(t *testing.T) {
	raw := []byte(`{"rewritten_resume": "JOÃO SILVA\nResumo"}`)

	res, err := normalize(raw, true)
	require.NoError(t, err)
	assert.Equal(t, "JOÃO SILVA\nResumo", res.Rewritten)
	assert.Empty(t, res.Analysis)
}

func TestNormalizeDiscreteFields(t *testing.T) {
	raw := []byte(`{"analysis": "Boa base técnica", "suggestions": "Adicionar GitHub", "score": 8}`)

	res, err := normalize(raw, false)
	require.NoError(t, err)
	assert.Equal(t, "Boa base técnica", res.Analysis)
	assert.Equal(t, "Adicionar GitHub", res.Suggestions)
	require.NotNil(t, res.Score)
	assert.Equal(t, 8, *res.Score)
}

func TestNormalizeEmptyArray(t *testing.T) {
	_, err := normalize([]byte(`[]`), false)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNormalizeMalformed(t *testing.T) {
	cases := []string{
		`{"something": "else"}`,
		`"just a string"`,
		`42`,
		`[1, 2, 3]`,
		`not json at all`,
	}
	for _, raw := range cases {
		_, err := normalize([]byte(raw), false)
		assert.ErrorIs(t, err, ErrMalformedResponse, "payload: %s", raw)
	}
}

func TestNormalizeErrorsAreNotUpstreamErrors(t *testing.T) {
	// Content failures must stay distinguishable from transport failures
	// so the HTTP layer can map them separately.
	_, err := normalize([]byte(`[]`), false)
	assert.False(t, IsUnavailable(err))

	var ue *UpstreamError
	assert.False(t, errors.As(err, &ue))
}

func TestFindScore(t *testing.T) {
	cases := []struct {
		text string
		want *int
	}{
		{"Nota: 8/10", intPtr(8)},
		{"nota 10/10, excelente", intPtr(10)},
		{"Score: 5", intPtr(5)},
		{"Pontuação: 9", intPtr(9)},
		{"avaliação geral muito boa", nil},
		{"telefone (11) 98765-4321", nil},
		{"", nil},
	}
	for _, tc := range cases {
		got := findScore(tc.text)
		if tc.want == nil {
			assert.Nil(t, got, "text: %q", tc.text)
		} else {
			require.NotNil(t, got, "text: %q", tc.text)
			assert.Equal(t, *tc.want, *got, "text: %q", tc.text)
		}
	}
}

func TestSplitSuggestionsNoMarker(t *testing.T) {
	analysis, suggestions := splitSuggestions("Texto corrido sem marcador algum.\nSegunda linha.")
	assert.Equal(t, "Texto corrido sem marcador algum.\nSegunda linha.", analysis)
	assert.Empty(t, suggestions)
}

func TestSplitSuggestionsMarkerOnFirstLine(t *testing.T) {
	analysis, suggestions := splitSuggestions("Sugestões: melhorar formatação")
	// Analysis stays derivable even when the text is all suggestions.
	assert.Equal(t, "Sugestões: melhorar formatação", analysis)
	assert.Equal(t, "melhorar formatação", suggestions)
}

func TestSplitSuggestionsStripsScoreLine(t *testing.T) {
	_, suggestions := splitSuggestions("Análise geral.\nSugestões:\nUse verbos de ação\nNota: 6/10")
	assert.Equal(t, "Use verbos de ação", suggestions)
}

func intPtr(n int) *int { return &n }
