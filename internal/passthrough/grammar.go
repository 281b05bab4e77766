package passthrough

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdio.h>
#include <stdlib.h>

typedef const void *(*language_fn)(void);

static const void *load_language(const char *path, const char *symbol, char *errbuf, size_t n) {
	void *lib = dlopen(path, RTLD_NOW | RTLD_LOCAL);
	if (lib == NULL) {
		snprintf(errbuf, n, "%s", dlerror());
		return NULL;
	}
	language_fn fn = (language_fn)dlsym(lib, symbol);
	if (fn == NULL) {
		snprintf(errbuf, n, "%s", dlerror());
		dlclose(lib);
		return NULL;
	}
	return fn();
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	sitter "github.com/smacker/go-tree-sitter"
)

// grammarSymbol is the entry point exported by a compiled tree-sitter-vhdl
// parser library.
const grammarSymbol = "tree_sitter_vhdl"

// LoadGrammar opens a compiled tree-sitter VHDL grammar (a shared library
// built from tree-sitter-vhdl) so the extractor can walk syntax trees
// instead of matching patterns. The library stays loaded for the life of
// the process.
func LoadGrammar(path string) (*sitter.Language, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	csym := C.CString(grammarSymbol)
	defer C.free(unsafe.Pointer(csym))

	var errbuf [256]C.char
	ptr := C.load_language(cpath, csym, &errbuf[0], C.size_t(len(errbuf)))
	if ptr == nil {
		return nil, fmt.Errorf("load grammar %s: %s", path, C.GoString(&errbuf[0]))
	}
	return sitter.NewLanguage(ptr), nil
}

// NewWithGrammar creates an Extractor that parses with the grammar at path.
// An empty path gives the pattern fallback.
func NewWithGrammar(path string) (*Extractor, error) {
	e := New()
	if path == "" {
		return e, nil
	}
	lang, err := LoadGrammar(path)
	if err != nil {
		return nil, err
	}
	e.SetLanguage(lang)
	return e, nil
}
