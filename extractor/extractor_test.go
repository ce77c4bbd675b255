// ABOUTME: Tests for import extraction, both structural and fallback paths
// ABOUTME: Validates root-segment collection, dedup, and degrade behavior

package extractor

import (
	"reflect"
	"testing"
)

func TestExtract_BasicForms(t *testing.T) {
	code := `import pkgA
import pkgB as x
from pkgC.sub import y
`
	imports, degraded := Extract(code)

	if degraded {
		t.Error("Expected structural parse to succeed, got degraded")
	}
	want := []string{"pkgA", "pkgB", "pkgC"}
	if !reflect.DeepEqual(imports, want) {
		t.Errorf("Expected imports %v, got %v", want, imports)
	}
}

func TestExtract_DottedAndCommaForms(t *testing.T) {
	code := `import os.path, collections.abc
import pandas as pd, numpy as np
from matplotlib.pyplot import plot, show
`
	imports, degraded := Extract(code)

	if degraded {
		t.Error("Expected structural parse to succeed, got degraded")
	}
	want := []string{"collections", "matplotlib", "numpy", "os", "pandas"}
	if !reflect.DeepEqual(imports, want) {
		t.Errorf("Expected imports %v, got %v", want, imports)
	}
}

func TestExtract_RelativeImportsSkipped(t *testing.T) {
	code := `from . import sibling
from .helpers import util
from ..pkg import thing
import requests
`
	imports, degraded := Extract(code)

	if degraded {
		t.Error("Expected structural parse to succeed, got degraded")
	}
	want := []string{"requests"}
	if !reflect.DeepEqual(imports, want) {
		t.Errorf("Expected imports %v, got %v", want, imports)
	}
}

func TestExtract_FallbackSkipsRelativeImports(t *testing.T) {
	// unterminated string forces the lexical scan, which must drop
	// relative modules the same way the structural parse does
	code := `from .helpers import util
from ..pkg import thing
import requests
s = "unterminated
`
	imports, degraded := Extract(code)

	if !degraded {
		t.Error("Expected degraded extraction for unterminated string")
	}
	want := []string{"requests"}
	if !reflect.DeepEqual(imports, want) {
		t.Errorf("Expected imports %v, got %v", want, imports)
	}
}

func TestExtract_ParenthesizedAndContinuations(t *testing.T) {
	code := `from pandas import (
    DataFrame,
    Series,
)
import boto3, \
    botocore
`
	imports, degraded := Extract(code)

	if degraded {
		t.Error("Expected structural parse to succeed, got degraded")
	}
	want := []string{"boto3", "botocore", "pandas"}
	if !reflect.DeepEqual(imports, want) {
		t.Errorf("Expected imports %v, got %v", want, imports)
	}
}

func TestExtract_IgnoresStringsAndComments(t *testing.T) {
	code := `# import fakepkg
msg = "import not_a_module"
doc = """
import also_not_a_module
"""
import requests  # trailing comment
`
	imports, degraded := Extract(code)

	if degraded {
		t.Error("Expected structural parse to succeed, got degraded")
	}
	want := []string{"requests"}
	if !reflect.DeepEqual(imports, want) {
		t.Errorf("Expected imports %v, got %v", want, imports)
	}
}

func TestExtract_NoDuplicatesOrEmptyEntries(t *testing.T) {
	code := `import pandas
import pandas.io.parsers
from pandas import DataFrame
`
	imports, _ := Extract(code)

	if len(imports) != 1 || imports[0] != "pandas" {
		t.Errorf("Expected exactly [pandas], got %v", imports)
	}
	for _, name := range imports {
		if name == "" {
			t.Error("Extraction produced an empty entry")
		}
	}
}

func TestExtract_FallbackOnTruncatedSource(t *testing.T) {
	code := `import pandas
from requests import
def broken(:
    x = "unterminated
import numpy`
	imports, degraded := Extract(code)

	if !degraded {
		t.Error("Expected degraded extraction for invalid source")
	}
	for _, want := range []string{"pandas", "requests", "numpy"} {
		found := false
		for _, got := range imports {
			if got == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Fallback did not recover '%s', got %v", want, imports)
		}
	}
}

func TestExtract_FallbackOnUnbalancedParens(t *testing.T) {
	code := `from pandas import (DataFrame,
import requests
`
	imports, degraded := Extract(code)

	if !degraded {
		t.Error("Expected degraded extraction for unbalanced parens")
	}
	found := false
	for _, got := range imports {
		if got == "pandas" {
			found = true
		}
	}
	if !found {
		t.Errorf("Fallback did not recover 'pandas', got %v", imports)
	}
}

func TestExtract_NeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n  ",
		"import",
		"from",
		"from import x",
		")))((( import ???",
		"import 123bad",
	}
	for _, code := range inputs {
		imports, _ := Extract(code)
		for _, name := range imports {
			if name == "" {
				t.Errorf("Input %q produced an empty import entry", code)
			}
		}
	}
}

func TestExtract_BothPathsAgreeOnCleanSource(t *testing.T) {
	code := `import pandas
from requests import get
`
	structural, degraded := Extract(code)
	if degraded {
		t.Fatal("Expected structural path for clean source")
	}

	lexical := normalize(lexicalScan(code))
	if !reflect.DeepEqual(structural, lexical) {
		t.Errorf("Paths disagree: structural %v, lexical %v", structural, lexical)
	}
}
