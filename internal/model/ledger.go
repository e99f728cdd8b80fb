package model

import (
	"context"
	"math/big"

	"token_leaderboard/internal/types"

	"github.com/go-redis/redis/v8"
)

// TokenSource 代币账本：余额查询与参与者枚举
type TokenSource interface {
	BalanceOf(ctx context.Context, address string) (*big.Int, error)
	KnownAddresses(ctx context.Context) ([]string, error)
}

// CollectibleSource 藏品账本：按等级统计持有数量
type CollectibleSource interface {
	OwnershipCount(ctx context.Context, address string) ([]uint64, error)
}

// LedgerFactory 按合约地址创建 Redis 账本
type LedgerFactory struct {
	RedisClient *redis.Client
	Owner       string
	Scorer      *Scorer
	BaseURI     string
}

// Token 创建代币账本，burner 为默认被授权销毁代币的藏品合约
func (f *LedgerFactory) Token(contract, burner string) *TokenModel {
	return NewTokenModel(f.RedisClient, contract, f.Owner, burner)
}

// Collectible 创建藏品账本
func (f *LedgerFactory) Collectible(contract string) *CollectibleModel {
	return NewCollectibleModel(f.RedisClient, contract, f.Owner, f.Scorer, f.BaseURI)
}

// checksum 合法地址统一为 EIP-55 格式，非法地址原样返回
func checksum(address string) string {
	if normalized, err := types.NormalizeAddress(address); err == nil {
		return normalized
	}
	return address
}

// 余额以十进制字符串保存，超出 int64 / double 精度，因此在脚本内按位做大数加减
// 脚本在 Redis 内原子执行，并发写入不会互相冲突
const decimalLua = `
local digits = "0123456789"

local function cmp(a, b)
	if #a ~= #b then
		if #a < #b then return -1 end
		return 1
	end
	if a == b then return 0 end
	if a < b then return -1 end
	return 1
end

local function add(a, b)
	local out, carry = {}, 0
	local i, j = #a, #b
	while i > 0 or j > 0 or carry > 0 do
		local d = carry
		if i > 0 then d = d + string.byte(a, i) - 48; i = i - 1 end
		if j > 0 then d = d + string.byte(b, j) - 48; j = j - 1 end
		if d >= 10 then d = d - 10; carry = 1 else carry = 0 end
		out[#out + 1] = string.sub(digits, d + 1, d + 1)
	end
	return string.reverse(table.concat(out))
end

local function sub(a, b)
	local out, borrow = {}, 0
	local i, j = #a, #b
	while i > 0 do
		local d = string.byte(a, i) - 48 - borrow
		if j > 0 then d = d - (string.byte(b, j) - 48); j = j - 1 end
		if d < 0 then d = d + 10; borrow = 1 else borrow = 0 end
		out[#out + 1] = string.sub(digits, d + 1, d + 1)
		i = i - 1
	end
	local s = string.gsub(string.reverse(table.concat(out)), "^0+", "")
	if s == "" then s = "0" end
	return s
end

local function balanceOf(key, address)
	local balance = redis.call("HGET", key, address)
	if not balance then return "0" end
	if not string.find(balance, "^%d+$") then
		return redis.error_reply("corrupt balance for " .. address)
	end
	return balance
end
`

// creditScript 批量入账
// KEYS: balances, known, holders, [genesis]
// ARGV: enlist(1/0), address1, amount1, address2, amount2 ...
// 传入 genesis 时只执行一次，已执行过返回 0
var creditScript = redis.NewScript(decimalLua + `
if KEYS[4] and redis.call("SETNX", KEYS[4], "1") == 0 then
	return 0
end
local balances = {}
for i = 2, #ARGV, 2 do
	local address = ARGV[i]
	if not balances[address] then
		local balance = balanceOf(KEYS[1], address)
		if type(balance) == "table" then return balance end
		balances[address] = balance
	end
end
for i = 2, #ARGV, 2 do
	local address, amount = ARGV[i], ARGV[i + 1]
	balances[address] = add(balances[address], amount)
	redis.call("HSET", KEYS[1], address, balances[address])
	if ARGV[1] == "1" and redis.call("SADD", KEYS[2], address) == 1 then
		redis.call("RPUSH", KEYS[3], address)
	end
end
return 1
`)

const (
	claimNotBurner         = -1
	claimInsufficientFunds = -2
)

// claimScript 扣除兑换价格并铸造藏品，返回新 tokenID
// KEYS: balances, burner, owned, supply
// ARGV: 调用方合约, 默认 burner, address, cost, tier
var claimScript = redis.NewScript(decimalLua + `
local burner = redis.call("GET", KEYS[2])
if not burner then burner = ARGV[2] end
if burner ~= ARGV[1] then return -1 end
local balance = balanceOf(KEYS[1], ARGV[3])
if type(balance) == "table" then return balance end
if cmp(balance, ARGV[4]) < 0 then return -2 end
redis.call("HSET", KEYS[1], ARGV[3], sub(balance, ARGV[4]))
redis.call("HINCRBY", KEYS[3], ARGV[5], 1)
return redis.call("INCR", KEYS[4])
`)
