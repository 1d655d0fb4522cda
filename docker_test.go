package mugclub_test

import (
	"os"
	"strings"
	"testing"
)

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// composeService はdocker-compose.ymlから指定サービスのブロックを取り出す。
func composeService(content, name string) string {
	lines := strings.Split(content, "\n")
	var block []string
	in := false
	for _, line := range lines {
		if strings.HasPrefix(line, "  ") && !strings.HasPrefix(line, "   ") {
			in = strings.TrimSpace(line) == name+":"
		} else if !strings.HasPrefix(line, " ") && strings.TrimSpace(line) != "" {
			in = false
		}
		if in {
			block = append(block, line)
		}
	}
	return strings.Join(block, "\n")
}

func TestDockerfileMultiStageBuild(t *testing.T) {
	content := readFile(t, "Dockerfile")

	// マルチステージビルドの確認: ビルドステージと実行ステージが存在すること
	if !strings.Contains(content, "FROM golang:") {
		t.Error("Dockerfile should contain a Go builder stage (FROM golang:)")
	}

	// 最終ステージは軽量イメージであること
	var lastFrom string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "FROM ") {
			lastFrom = trimmed
		}
	}
	if !strings.Contains(lastFrom, "gcr.io/distroless") && !strings.Contains(lastFrom, "alpine") && !strings.Contains(lastFrom, "scratch") {
		t.Errorf("final stage should use a minimal base image (distroless/alpine/scratch), got: %s", lastFrom)
	}
}

func TestDockerfileBuildsMugclubBinary(t *testing.T) {
	content := readFile(t, "Dockerfile")

	if !strings.Contains(content, "./cmd/mugclub") {
		t.Error("Dockerfile should build ./cmd/mugclub")
	}
	if !strings.Contains(content, "ENTRYPOINT") {
		t.Error("Dockerfile should contain ENTRYPOINT")
	}
}

func TestDockerfileHealthcheckUsesSubcommand(t *testing.T) {
	content := readFile(t, "Dockerfile")

	// distrolessにはcurlが無いため、バイナリのhealthcheckサブコマンドを使うこと
	if !strings.Contains(content, `"healthcheck"`) {
		t.Error("Dockerfile HEALTHCHECK should run the healthcheck subcommand")
	}
}

func TestDockerComposeServices(t *testing.T) {
	content := readFile(t, "docker-compose.yml")

	for _, svc := range []string{"api", "worker", "migrate", "db"} {
		if composeService(content, svc) == "" {
			t.Errorf("docker-compose.yml should contain service %q", svc)
		}
	}

	if !strings.Contains(composeService(content, "db"), "postgres:") {
		t.Error("db service should use a PostgreSQL image")
	}
}

func TestDockerComposeSubcommands(t *testing.T) {
	content := readFile(t, "docker-compose.yml")

	subcommands := map[string]string{
		"api":     "serve",
		"worker":  "worker",
		"migrate": "migrate",
	}
	for svc, want := range subcommands {
		if !strings.Contains(composeService(content, svc), `command: ["`+want+`"]`) {
			t.Errorf("%s service should run the %q subcommand", svc, want)
		}
	}
}

func TestDockerComposeNetworks(t *testing.T) {
	content := readFile(t, "docker-compose.yml")

	// DBは外部通信不可の内部ネットワークのみに接続すること
	if !strings.Contains(content, "internal: true") {
		t.Error("docker-compose.yml should define an internal network (internal: true)")
	}
	if strings.Contains(composeService(content, "db"), "- external") {
		t.Error("db service must not join the external network")
	}

	// SMS検証プロバイダーに接続するapiのみ外部通信を許可すること
	if !strings.Contains(composeService(content, "api"), "- external") {
		t.Error("api service should join the external network to reach the verification provider")
	}
	if strings.Contains(composeService(content, "worker"), "- external") {
		t.Error("worker service only needs the database and must not join the external network")
	}
}
