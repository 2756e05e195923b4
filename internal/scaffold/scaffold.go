// Package scaffold populates starter project trees. The generated sources
// are intentionally minimal stubs; the contract is only that the resulting
// tree is detectable and buildable with the ecosystem's standard tooling.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/mcpforge/mcpforge/internal/detect"
)

type file struct {
	path    string
	content string
}

// Generate writes the starter tree for kind into dir, which must already
// exist. Partially written trees are left in place on failure.
func Generate(kind detect.Kind, name, dir string) error {
	var files []file
	switch kind {
	case detect.TypeScript:
		files = typescriptFiles(name)
	case detect.Python:
		files = pythonFiles(name)
	case detect.Java:
		files = javaFiles(name)
	default:
		return fmt.Errorf("no scaffold for kind %q", kind)
	}

	for _, f := range files {
		full := filepath.Join(dir, f.path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", full, err)
		}
	}
	return nil
}

// InitGit puts a freshly generated project under version control with one
// initial commit. Callers treat failure as non-fatal.
func InitGit(dir string) error {
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return fmt.Errorf("git init %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage scaffold: %w", err)
	}
	_, err = wt.Commit("Initial scaffold", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "mcpforge",
			Email: "mcpforge@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("commit scaffold: %w", err)
	}
	return nil
}

func typescriptFiles(name string) []file {
	packageJSON := fmt.Sprintf(`{
  "name": %q,
  "version": "0.1.0",
  "type": "module",
  "scripts": {
    "build": "tsc"
  },
  "dependencies": {
    "@modelcontextprotocol/sdk": "^1.0.0"
  },
  "devDependencies": {
    "typescript": "^5.6.0",
    "@types/node": "^22.0.0"
  }
}
`, name)

	tsconfig := `{
  "compilerOptions": {
    "target": "ES2022",
    "module": "Node16",
    "moduleResolution": "Node16",
    "outDir": "build",
    "rootDir": "src",
    "strict": true
  },
  "include": ["src/**/*"]
}
`

	index := fmt.Sprintf(`// %s MCP server entry point.
import { Server } from "@modelcontextprotocol/sdk/server/index.js";
import { StdioServerTransport } from "@modelcontextprotocol/sdk/server/stdio.js";

const server = new Server({ name: %q, version: "0.1.0" }, { capabilities: { tools: {} } });

const transport = new StdioServerTransport();
await server.connect(transport);
`, name, name)

	return []file{
		{path: "package.json", content: packageJSON},
		{path: "tsconfig.json", content: tsconfig},
		{path: filepath.Join("src", "index.ts"), content: index},
	}
}

func pythonFiles(name string) []file {
	pyproject := fmt.Sprintf(`[project]
name = %q
version = "0.1.0"
requires-python = ">=3.10"
dependencies = ["mcp>=1.0.0"]
`, name)

	server := fmt.Sprintf(`"""%s MCP server entry point."""

from mcp.server import Server
from mcp.server.stdio import stdio_server


async def main() -> None:
    server = Server(%q)
    async with stdio_server() as (read, write):
        await server.run(read, write, server.create_initialization_options())


if __name__ == "__main__":
    import asyncio

    asyncio.run(main())
`, name, name)

	return []file{
		{path: "pyproject.toml", content: pyproject},
		{path: "server.py", content: server},
	}
}

func javaFiles(name string) []file {
	pom := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <groupId>com.example</groupId>
  <artifactId>%s</artifactId>
  <version>0.1.0</version>
  <properties>
    <maven.compiler.source>17</maven.compiler.source>
    <maven.compiler.target>17</maven.compiler.target>
  </properties>
  <build>
    <plugins>
      <plugin>
        <groupId>org.apache.maven.plugins</groupId>
        <artifactId>maven-assembly-plugin</artifactId>
        <version>3.7.1</version>
        <configuration>
          <descriptorRefs>
            <descriptorRef>jar-with-dependencies</descriptorRef>
          </descriptorRefs>
          <archive>
            <manifest>
              <mainClass>server.Main</mainClass>
            </manifest>
          </archive>
        </configuration>
        <executions>
          <execution>
            <phase>package</phase>
            <goals>
              <goal>single</goal>
            </goals>
          </execution>
        </executions>
      </plugin>
    </plugins>
  </build>
</project>
`, name)

	main := fmt.Sprintf(`package server;

/** %s MCP server entry point. */
public final class Main {
    public static void main(String[] args) {
        System.err.println(%q + " starting on stdio");
    }
}
`, name, name)

	return []file{
		{path: "pom.xml", content: pom},
		{path: filepath.Join("src", "main", "java", "server", "Main.java"), content: main},
	}
}
