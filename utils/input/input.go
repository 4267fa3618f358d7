package input

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tsinghua-fib-lab/navigator-planner/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v2"
)

const (
	downloadTimeout = 60 * time.Second
)

// Input 输入数据
// 功能：存储规划器启动所需的路网地图
type Input struct {
	Map *Map
}

// Init 下载数据
// 功能：根据配置加载路网地图
// 参数：config-配置对象，cacheDir-缓存目录
// 返回：加载完成的输入数据指针
// 算法说明：
// 1. 缓存检查：验证缓存目录的有效性
// 2. 文件加载：如果指定了地图文件，直接从YAML文件读取
// 3. 数据库加载：否则优先读缓存，缓存缺失时从MongoDB下载并写入缓存
// 4. 数据校验：检查道路ID唯一、参考线与车道数据完整
// 说明：地图加载失败属于启动期致命错误，直接panic
func Init(config config.Config, cacheDir string) (res *Input) {
	useCache := preCheckCache(cacheDir)
	if !useCache {
		cacheDir = ""
	}

	res = &Input{}
	var err error
	if config.Input.Map.File != "" {
		res.Map, err = LoadMapFile(config.Input.Map.File)
		if err != nil {
			log.Panicf("failed to load map from file: %v", err)
		}
	} else {
		res.Map, err = loadWithCache(config.Input.URI, config.Input.Map, cacheDir)
		if err != nil {
			log.Panicf("failed to load map: %v", err)
		}
	}
	if err := Validate(res.Map); err != nil {
		log.Panicf("bad map data: %v", err)
	}
	log.Infof("map loaded with %d roads", len(res.Map.Roads))
	return
}

// LoadMapFile 从YAML文件读取地图
func LoadMapFile(path string) (*Map, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Map
	if err := yaml.Unmarshal(file, &m); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &m, nil
}

// SaveMapFile 将地图写入YAML文件
func SaveMapFile(m *Map, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// loadWithCache 带缓存的地图加载
// 功能：优先从缓存文件加载，缓存不存在时从MongoDB下载并写回缓存
// 参数：uri-MongoDB连接字符串，inputPath-输入路径配置，cacheDir-缓存目录（为空则禁用缓存）
// 返回：地图数据与错误信息
// 说明：OnlyCache为true时不会访问数据库
func loadWithCache(uri string, inputPath config.InputPath, cacheDir string) (*Map, error) {
	cachePath := ""
	if cacheDir != "" {
		cachePath = filepath.Join(cacheDir, inputPath.GetCachePath())
		if m, err := LoadMapFile(cachePath); err == nil {
			log.Infof("load map from cache %s", cachePath)
			return m, nil
		} else if !os.IsNotExist(err) {
			log.Warnf("ignore bad cache %s: %v", cachePath, err)
		}
	}
	if inputPath.OnlyCache {
		return nil, fmt.Errorf("only_cache is set but cache %q is not available", cachePath)
	}
	log.Infof("start fetching from %s.%s", inputPath.GetDb(), inputPath.GetColl())
	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()
	m, err := downloadMap(ctx, uri, inputPath)
	if err != nil {
		return nil, err
	}
	log.Infof("finish fetching from %s.%s", inputPath.GetDb(), inputPath.GetColl())
	if cachePath != "" {
		if err := SaveMapFile(m, cachePath); err != nil {
			log.Warnf("failed to write cache %s: %v", cachePath, err)
		}
	}
	return m, nil
}

// downloadMap 从MongoDB下载地图，集合中每个文档是一条道路
func downloadMap(ctx context.Context, uri string, inputPath config.InputPath) (*Map, error) {
	if uri == "" {
		return nil, fmt.Errorf("no mongo uri for %s.%s", inputPath.GetDb(), inputPath.GetColl())
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	coll := client.Database(inputPath.GetDb()).Collection(inputPath.GetColl())
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find roads: %w", err)
	}
	m := &Map{}
	if err := cursor.All(ctx, &m.Roads); err != nil {
		return nil, fmt.Errorf("decode roads: %w", err)
	}
	return m, nil
}
