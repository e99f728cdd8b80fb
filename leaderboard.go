package main

import (
	"flag"
	"fmt"

	"token_leaderboard/internal/config"
	"token_leaderboard/internal/handler"
	"token_leaderboard/internal/svc"

	"github.com/joho/godotenv"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"
)

var configFile = flag.String("f", "etc/leaderboard.yaml", "the config file")

func main() {
	flag.Parse()

	// 本地开发读取 .env，生产环境直接使用环境变量
	_ = godotenv.Load()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	svcCtx, err := svc.NewServiceContext(c)
	logx.Must(err)

	httpx.SetErrorHandler(handler.ErrorHandler)
	handler.RegisterHandlers(server, svcCtx)

	fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)
	server.Start()
}
