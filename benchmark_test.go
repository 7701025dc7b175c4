package glossa_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ZaguanLabs/glossa"
	"github.com/ZaguanLabs/glossa/cache"
	"github.com/ZaguanLabs/glossa/processor"
	"github.com/ZaguanLabs/glossa/provider"
)

func BenchmarkHashText(b *testing.B) {
	text := "Hello World, this is a sample text for hashing"
	for b.Loop() {
		glossa.HashText(text)
	}
}

func BenchmarkCacheKey(b *testing.B) {
	hash := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e"
	for b.Loop() {
		glossa.CacheKey(hash, "ollama", "gemma3", glossa.DefaultResponseField)
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	c.Set("test-key", "test-value")
	for b.Loop() {
		c.Get("test-key")
	}
}

func BenchmarkInMemoryCache_Set(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	for b.Loop() {
		c.Set("test-key", "test-value")
	}
}

func BenchmarkHTMLExtractor_Extract_Small(b *testing.B) {
	proc := processor.NewHTMLExtractor()
	html := `<div><p>Hello World</p></div>`
	for b.Loop() {
		proc.Extract(html)
	}
}

func BenchmarkHTMLExtractor_Extract_Medium(b *testing.B) {
	proc := processor.NewHTMLExtractor()
	html := `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<nav><a href="/">Home</a><a href="/about">About</a></nav>
	<main>
		<h1>Welcome to Our Site</h1>
		<p>This is a paragraph with some text.</p>
		<p>Another paragraph here.</p>
		<ul>
			<li>Item one</li>
			<li>Item two</li>
			<li>Item three</li>
		</ul>
	</main>
	<footer><p>Copyright 2024</p></footer>
</body>
</html>`
	for b.Loop() {
		proc.Extract(html)
	}
}

// benchGlossary builds a glossary of n synthetic terms plus a few real ones.
func benchGlossary(n int) *glossa.Glossary {
	entries := []glossa.Entry{
		{Term: "firewall", Value: "barreira de proteção"},
		{Term: "roteador", Value: "router"},
		{Term: "servidor", Value: "server"},
	}
	for i := 0; i < n; i++ {
		entries = append(entries, glossa.Entry{Term: fmt.Sprintf("termo%03d", i), Value: "value"})
	}
	return glossa.NewGlossary(entries...)
}

const benchText = "O roteador e os servidores ficam atrás do firewall, conforme a política de segurança da empresa."

const benchTemplate = "Glossário:\n{{glossario}}\n\nTexto:\n{{cole aqui o texto a ser traduzido}}"

func BenchmarkTokenize(b *testing.B) {
	for b.Loop() {
		glossa.Tokenize(benchText)
	}
}

func BenchmarkWRatio(b *testing.B) {
	for b.Loop() {
		glossa.WRatio("servidores", "servidor")
	}
}

func BenchmarkMatcher_Match_SmallGlossary(b *testing.B) {
	g := benchGlossary(10)
	words := glossa.Tokenize(benchText)
	m := glossa.NewMatcher()
	for b.Loop() {
		m.Match(words, g)
	}
}

func BenchmarkMatcher_Match_LargeGlossary(b *testing.B) {
	g := benchGlossary(500)
	words := glossa.Tokenize(benchText)
	m := glossa.NewMatcher()
	for b.Loop() {
		m.Match(words, g)
	}
}

func BenchmarkTranslator_Prepare(b *testing.B) {
	t := glossa.NewTranslator(benchGlossary(100), glossa.MustParseTemplate(benchTemplate), nil)
	for b.Loop() {
		t.Prepare(benchText)
	}
}

func BenchmarkTranslator_Translate_Cached(b *testing.B) {
	p := provider.NewMockBackend()
	c := cache.NewInMemoryCache(3600)

	translator := glossa.NewTranslator(benchGlossary(10), glossa.MustParseTemplate(benchTemplate), p,
		glossa.WithCache(c),
	)

	// Prime the cache
	translator.Translate(context.Background(), benchText)

	for b.Loop() {
		translator.Translate(context.Background(), benchText)
	}
}

func BenchmarkTranslator_Translate_Uncached(b *testing.B) {
	p := provider.NewMockBackend()
	translator := glossa.NewTranslator(benchGlossary(10), glossa.MustParseTemplate(benchTemplate), p)

	for b.Loop() {
		translator.Translate(context.Background(), benchText)
	}
}

func BenchmarkGetNoTermsMarker(b *testing.B) {
	langs := []string{"pt_BR", "en_US", "es-MX", "fr", "ja_JP"}
	i := 0
	for b.Loop() {
		glossa.GetNoTermsMarker(langs[i%len(langs)])
		i++
	}
}
