package source

import (
	"sync"
	"testing"
)

func TestParserPool_GetPut(t *testing.T) {
	pool := NewParserPool(NewGrammarLoader().Python())

	sp := pool.Get()
	if sp == nil {
		t.Fatal("expected parser from pool")
	}
	if pool.Leased() != 1 {
		t.Fatalf("expected 1 leased parser, got %d", pool.Leased())
	}
	pool.Put(sp)
	if pool.Leased() != 0 {
		t.Fatalf("expected no leased parsers, got %d", pool.Leased())
	}

	pool.Put(nil)
}

func TestParserPool_Parse(t *testing.T) {
	pool := NewParserPool(NewGrammarLoader().Python())

	tree := pool.Parse([]byte("def main():\n    return 1\n"))
	if tree == nil {
		t.Fatal("expected parse tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.Kind() != "module" || root.HasError() {
		t.Fatalf("unexpected root %s (hasError=%v)", root.Kind(), root.HasError())
	}
	if pool.Leased() != 0 {
		t.Fatalf("parser not returned after Parse")
	}
}

func TestParserPool_LanguageSetAfterReset(t *testing.T) {
	pool := NewParserPool(NewGrammarLoader().Python())

	sp := pool.Get()
	sp.Reset()
	pool.Put(sp)

	sp = pool.Get()
	defer pool.Put(sp)
	tree := sp.Parse([]byte("x = 1\n"), nil)
	if tree == nil {
		t.Fatal("reset parser should still parse")
	}
	tree.Close()
}

func TestParserPool_ConcurrentAccess(t *testing.T) {
	pool := NewParserPool(NewGrammarLoader().Python())

	const goroutines = 16
	const iters = 25
	src := []byte("import os\nprint(os.getcwd())\n")

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				tree := pool.Parse(src)
				if tree == nil {
					t.Errorf("expected parse tree")
					continue
				}
				tree.Close()
			}
		}()
	}
	wg.Wait()
}
