package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/seasnap/pkg/metadata"
)

func TestPatternMatch(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		pattern string
		path    string
		want    map[string]string
	}{
		"paired end": {
			pattern: "{sample}_R{mate}.fastq",
			path:    "s1_R1.fastq",
			want:    map[string]string{"sample": "s1", "mate": "1"},
		},
		"sample is greedy": {
			pattern: "{sample}_R{mate}.fastq",
			path:    "s_R1_R2.fastq",
			want:    map[string]string{"sample": "s_R1", "mate": "2"},
		},
		"repeated wildcard": {
			pattern: "{flowcell}/{sample}/{sample}_R{paired_end}.fastq.gz",
			path:    "fc1/s1/s1_R2.fastq.gz",
			want:    map[string]string{"flowcell": "fc1", "sample": "s1", "paired_end": "2"},
		},
		"repeated wildcard mismatch": {
			pattern: "{sample}/{sample}_R{mate}.fastq",
			path:    "s1/s2_R1.fastq",
		},
		"wildcards stop at slashes": {
			pattern: "{sample}.fastq",
			path:    "a/b.fastq",
		},
		"literal dots": {
			pattern: "{sample}.fastq",
			path:    "s1xfastq",
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pat, err := metadata.CompilePattern(tc.pattern)
			require.NoError(t, err)
			got, ok := pat.Match(tc.path)
			if tc.want == nil {
				assert.False(t, ok)

				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompilePatternErrors(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "  ", "{sample", "{sample}}", "{1x}.fq"} {
		_, err := metadata.CompilePattern(raw)
		assert.ErrorIs(t, err, metadata.ErrParse, raw)
	}
}

func TestPatternWildcards(t *testing.T) {
	t.Parallel()

	pat, err := metadata.CompilePattern("{flowcell}/{sample}/{sample}_L{lane}_R{mate}.fq")
	require.NoError(t, err)
	assert.Equal(t, []string{"flowcell", "sample", "lane", "mate"}, pat.Wildcards())
	assert.True(t, pat.Has(metadata.WildcardMate))
	assert.False(t, pat.Has(metadata.WildcardPairedEnd))
}

func TestPatternExpand(t *testing.T) {
	t.Parallel()

	pat, err := metadata.CompilePattern(metadata.DefaultOutputPattern)
	require.NoError(t, err)
	got, err := pat.Expand(map[string]string{"step": "salmon", "extension": "sf", "unused": "x"})
	require.NoError(t, err)
	assert.Equal(t, "salmon/{sample}.sf", got.String())
	assert.Equal(t, []string{"sample"}, got.Wildcards())
}

func TestPatternSplitRoot(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		pattern  string
		wantRoot string
		wantRel  string
	}{
		"relative": {
			pattern:  "../input/{flowcell}/{sample}/{sample}_R{paired_end}.fastq.gz",
			wantRoot: "../input",
			wantRel:  "{flowcell}/{sample}/{sample}_R{paired_end}.fastq.gz",
		},
		"absolute": {
			pattern:  "/data/{sample}.fq",
			wantRoot: "/data",
			wantRel:  "{sample}.fq",
		},
		"no directory": {
			pattern:  "{sample}.fq",
			wantRoot: ".",
			wantRel:  "{sample}.fq",
		},
		"wildcard in file name only": {
			pattern:  "mapping/salmon/out/{sample}.sf",
			wantRoot: "mapping/salmon/out",
			wantRel:  "{sample}.sf",
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pat, err := metadata.CompilePattern(tc.pattern)
			require.NoError(t, err)
			root, rel, err := pat.SplitRoot()
			require.NoError(t, err)
			assert.Equal(t, tc.wantRoot, root)
			assert.Equal(t, tc.wantRel, rel.String())
		})
	}
}
