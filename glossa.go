// Package glossa builds glossary-aware translation prompts.
//
// Glossa tokenizes input text, fuzzy-matches the words against a glossary,
// and renders only the relevant entries into a prompt template before
// sending it to a text-generation backend (Ollama, OpenAI, Gemini).
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/glossa"
//	    "github.com/ZaguanLabs/glossa/cache"
//	    "github.com/ZaguanLabs/glossa/provider"
//	)
//
//	func main() {
//	    g, err := glossa.LoadGlossary("glossario.json")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    tmpl, err := glossa.LoadTemplate("system_prompt.txt")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    t := glossa.NewTranslator(g, tmpl, provider.NewOllamaBackend(provider.OllamaConfig{}),
//	        glossa.WithCache(cache.NewInMemoryCache(3600)),
//	    )
//
//	    result, err := t.Translate(context.Background(), "Configure o firewall corretamente.")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Text)
//	}
package glossa
