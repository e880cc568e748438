// 手动导入题库 CSV 脚本
//
// 题库导入已有 /api/datasets/questions 接口，此脚本用于首次部署时
// 不经过 HTTP 服务直接灌库。
//
// 用法: go run scripts/import_dataset.go <dataset.csv>

package main

import (
	"log"
	"os"

	"csa_sim_backend/internal/config"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/internal/service"
	"csa_sim_backend/pkg/database"
	"csa_sim_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: go run scripts/import_dataset.go <dataset.csv>")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	schemeRepo := repository.NewSchemeRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	schemeSvc := service.NewSchemeService(schemeRepo, questionRepo)
	questionSvc := service.NewQuestionService(questionRepo, schemeSvc)

	file, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("无法打开数据集文件: %v", err)
	}
	defer file.Close()

	summary, err := questionSvc.ImportDataset(file)
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}

	log.Printf("导入完成: 新增 %d 条, 跳过 %d 条", summary.Imported, summary.Skipped)
}
