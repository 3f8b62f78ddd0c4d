package texcite

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "single cite with list",
			src:  `As shown in \cite{A,B,C}.`,
			want: []string{"A", "B", "C"},
		},
		{
			name: "variants and optional arguments",
			src:  `\citep{Hanesch1989} and \citet*{Strausfeld1976} \cite[p.~4]{Wolff2015} \parencite[see][ch. 2]{Ito2014}`,
			want: []string{"Hanesch1989", "Ito2014", "Strausfeld1976", "Wolff2015"},
		},
		{
			name: "whitespace around keys and duplicates",
			src:  "\\cite{ A ,\n  B}\n\\cite{B, A}",
			want: []string{"A", "B"},
		},
		{
			name: "empty key list",
			src:  `\cite{} \cite{ , }`,
			want: []string{},
		},
		{
			name: "comments are ignored",
			src:  "% \\cite{Hidden}\nKept \\cite{Shown} % \\cite{AlsoHidden}\n50\\% \\cite{Percent}",
			want: []string{"Percent", "Shown"},
		},
		{
			name: "no citations",
			src:  `\section{Intro} Nothing cited.`,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keys(tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.tex")
	if err := os.WriteFile(path, []byte(`\cite{X,Y}`), 0644); err != nil {
		t.Fatal(err)
	}
	keys, err := ScanFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(keys, ",") != "X,Y" {
		t.Errorf("ScanFile() = %v", keys)
	}

	if _, err := ScanFile(filepath.Join(t.TempDir(), "missing.tex")); err == nil {
		t.Error("expected error for missing file")
	}
}
