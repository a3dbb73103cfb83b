package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"cv-parser-go/internal/config"
	"cv-parser-go/internal/llm"
	appCoreLogger "cv-parser-go/internal/logger"
	"cv-parser-go/internal/processor"
	"cv-parser-go/pkg/ratelimit"
)

var version = "1.7.4" //nolint:gochecknoglobals

func main() {
	var (
		configPath  string
		inputPath   string
		outputPath  string
		pretty      bool
		debug       bool
		showVersion bool
	)

	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "配置文件路径")
	pflag.StringVarP(&inputPath, "input", "i", "", "简历文本文件路径(OCR结果)")
	pflag.StringVarP(&outputPath, "output", "o", "", "输出JSON路径，缺省写到标准输出")
	pflag.BoolVar(&pretty, "pretty", false, "缩进输出JSON")
	pflag.BoolVar(&debug, "debug", false, "开启调试日志")
	pflag.BoolVarP(&showVersion, "version", "v", false, "显示版本号")
	pflag.Parse()

	if showVersion {
		fmt.Printf("cvparser v%s\n", version)
		return
	}

	// .env中的OLLAMA_BASE_URL/OLLAMA_MODEL会覆盖配置文件
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	appCoreLogger.Init(cfg.Logger)
	appCoreLogger.Info().Msg("配置加载成功")

	if inputPath == "" {
		pflag.Usage()
		log.Fatal("缺少输入文件，请用 -i 指定")
	}

	procLogger := log.New(appCoreLogger.Logger, "", log.LstdFlags)

	var generator llm.TextGenerator = llm.NewOllamaClient(cfg.Ollama, llm.WithOllamaLogger(procLogger))
	if cfg.Ollama.QPM > 0 {
		generator = ratelimit.NewRateLimitedGenerator(generator, cfg.Ollama.QPM)
	}

	proc := processor.NewCVProcessor(
		[]processor.ComponentOpt{
			processor.WithcompGenerator(generator),
		},
		[]processor.SettingOpt{
			processor.WithsetLogger(procLogger),
			processor.WithsetDebug(debug),
			processor.WithsetModel(cfg.Ollama.Model),
			processor.WithsetEnrichment(cfg.Enrichment),
		},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	doc, err := proc.ParseFile(ctx, inputPath)
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("解析失败")
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(doc, "", "  ")
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("序列化结果失败")
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, out, 0o644); err != nil {
			appCoreLogger.Fatal().Err(err).Msg("写出结果失败")
		}
		appCoreLogger.Info().Str("path", outputPath).Msg("结果已写入")
	} else {
		fmt.Println(string(out))
	}
}
